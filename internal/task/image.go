package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
	"github.com/deepwrite/deepwrite/internal/genai"
)

// ImageController owns the image studio: generating illustration assets for a
// task and editing existing ones. Every produced image is appended to the
// task's asset list; nothing is ever removed from it.
type ImageController struct {
	tasks     *Collection
	gen       genai.Service
	genModel  string
	editModel string
	logger    zerolog.Logger
}

// NewImageController creates the image controller. The model names are
// recorded on each produced asset.
func NewImageController(tasks *Collection, gen genai.Service, genModel, editModel string, logger zerolog.Logger) *ImageController {
	return &ImageController{
		tasks:     tasks,
		gen:       gen,
		genModel:  genModel,
		editModel: editModel,
		logger:    logger.With().Str("component", "image").Logger(),
	}
}

// Generate produces an image for the prompt at the requested size and
// appends it to the task's assets.
func (c *ImageController) Generate(ctx context.Context, taskID, prompt string, size constants.ImageSize) (domain.GeneratedImage, error) {
	if prompt == "" {
		return domain.GeneratedImage{}, errors.Wrap(errors.ErrEmptyValue, "prompt")
	}
	if !size.Valid() {
		return domain.GeneratedImage{}, errors.ErrInvalidImageSize
	}
	if _, ok := c.tasks.Get(taskID); !ok {
		return domain.GeneratedImage{}, errors.ErrTaskNotFound
	}

	uri, err := c.gen.GenerateImage(ctx, prompt, size)
	if err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Msg("image generation failed")
		return domain.GeneratedImage{}, errors.Wrap(err, "image generation failed")
	}

	img := domain.GeneratedImage{
		ID:     uuid.NewString(),
		URL:    uri,
		Prompt: prompt,
		Model:  c.genModel,
		Params: string(size),
	}
	c.tasks.Update(taskID, domain.TaskPatch{AppendImages: []domain.GeneratedImage{img}})

	c.logger.Info().Str("task_id", taskID).Str("image_id", img.ID).Str("size", string(size)).Msg("image generated")
	return img, nil
}

// Edit applies an edit instruction to an existing asset and appends the
// result as a new asset. The source image is identified by id and must carry
// its payload as a data URI.
func (c *ImageController) Edit(ctx context.Context, taskID, imageID, prompt string) (domain.GeneratedImage, error) {
	if prompt == "" {
		return domain.GeneratedImage{}, errors.Wrap(errors.ErrEmptyValue, "prompt")
	}
	t, ok := c.tasks.Get(taskID)
	if !ok {
		return domain.GeneratedImage{}, errors.ErrTaskNotFound
	}

	var source *domain.GeneratedImage
	for i := range t.Images {
		if t.Images[i].ID == imageID {
			source = &t.Images[i]
			break
		}
	}
	if source == nil {
		return domain.GeneratedImage{}, errors.Wrap(errors.ErrImageUnavailable, imageID)
	}

	uri, err := c.gen.EditImage(ctx, source.URL, prompt)
	if err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Str("image_id", imageID).Msg("image edit failed")
		return domain.GeneratedImage{}, errors.Wrap(err, "image edit failed")
	}

	img := domain.GeneratedImage{
		ID:     uuid.NewString(),
		URL:    uri,
		Prompt: prompt,
		Model:  c.editModel,
	}
	c.tasks.Update(taskID, domain.TaskPatch{AppendImages: []domain.GeneratedImage{img}})
	return img, nil
}
