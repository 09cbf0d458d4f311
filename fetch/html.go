package fetch

import (
	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

// newConverter turns markup into plain text. Emphasis, headings and code are
// reduced to their text, links are flattened, images are dropped and table
// cells are separated by a pipe. Page text is never escaped and lines are
// never wrapped.
func newConverter() *converter.Converter {
	conv := converter.NewConverter(
		converter.WithEscapeMode(converter.EscapeModeDisabled),
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre"} {
		conv.Register.RendererFor(tag, converter.TagTypeBlock, base.RenderAsPlaintextWrapper, converter.PriorityEarly)
	}
	for _, tag := range []string{"strong", "b", "em", "i", "code"} {
		conv.Register.RendererFor(tag, converter.TagTypeInline, base.RenderAsPlaintextWrapper, converter.PriorityEarly)
	}
	conv.Register.RendererFor("a", converter.TagTypeInline, renderLinkText, converter.PriorityEarly)
	conv.Register.RendererFor("img", converter.TagTypeInline, renderNothing, converter.PriorityEarly)
	conv.Register.RendererFor("tr", converter.TagTypeBlock, renderRow, converter.PriorityEarly)
	conv.Register.RendererFor("td", converter.TagTypeInline, renderCell, converter.PriorityEarly)
	conv.Register.RendererFor("th", converter.TagTypeInline, renderCell, converter.PriorityEarly)
	return conv
}

func renderLinkText(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	ctx.RenderChildNodes(ctx, w, n)
	return converter.RenderSuccess
}

func renderNothing(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	return converter.RenderSuccess
}

// renderRow puts every table row on its own line
func renderRow(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	w.WriteString("\n")
	ctx.RenderChildNodes(ctx, w, n)
	w.WriteString("\n")
	return converter.RenderSuccess
}

func renderCell(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	if dom.PrevSiblingElement(n) != nil {
		w.WriteString(" | ")
	}
	ctx.RenderChildNodes(ctx, w, n)
	return converter.RenderSuccess
}
