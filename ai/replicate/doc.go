// Package replicate is a small client for the Replicate predictions API.
//
// A prediction is created with POST /v1/predictions and then polled until it
// reaches a terminal status. Model adapts a model version to langchaingo's
// llms.Model so Replicate-hosted text and image models can run inside chains.
//
//	client := replicate.NewClient(token)
//	img := replicate.NewImageModel(client, ai.DefaultImageModel)
//	url, err := llms.GenerateFromSinglePrompt(ctx, img, "a lighthouse at dusk")
package replicate
