package gemini

import (
	"context"
	"fmt"
	"strings"
)

// Model available to the API key
type Model struct {
	ID   string
	Name string
}

// Models lists the models available to the API key
func (c *Client) Models(ctx context.Context) (models []*Model, err error) {
	for model, err := range c.gc.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini: listing models: %w", err)
		}
		models = append(models, &Model{
			ID:   strings.TrimPrefix(model.Name, "models/"),
			Name: model.DisplayName,
		})
	}
	return models, nil
}
