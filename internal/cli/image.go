package cli

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deepwrite/deepwrite/internal/config"
	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/errors"
	"github.com/deepwrite/deepwrite/internal/genai"
	"github.com/deepwrite/deepwrite/internal/tui"
)

// imageFlags holds options shared by the image subcommands.
type imageFlags struct {
	// Size is the requested image quality (1K, 2K, or 4K).
	Size string
	// Out is the file the resulting image is written to.
	Out string
}

// AddImageCommand adds the image command group to the root command.
func AddImageCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Generate or edit thesis figures",
		Long: `Image generates and edits figures outside the interactive workflow.

Examples:
  deepwrite image generate "泳道图：论文写作流程" --size 2K --out figure.png
  deepwrite image edit figure.png "将背景改为白色" --out figure2.png`,
	}

	addImageGenerateCmd(cmd)
	addImageEditCmd(cmd)

	root.AddCommand(cmd)
}

// addImageGenerateCmd adds the generate subcommand to the image command.
func addImageGenerateCmd(parent *cobra.Command) {
	flags := &imageFlags{}

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate a figure from a text prompt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := ""
			if len(args) > 0 {
				prompt = args[0]
			}
			return runImageGenerate(cmd.Context(), flags, prompt)
		},
	}

	cmd.Flags().StringVarP(&flags.Size, "size", "s", "", "image quality (1K|2K|4K)")
	cmd.Flags().StringVar(&flags.Out, "out", "figure.png", "output file")

	parent.AddCommand(cmd)
}

// addImageEditCmd adds the edit subcommand to the image command.
func addImageEditCmd(parent *cobra.Command) {
	flags := &imageFlags{}

	cmd := &cobra.Command{
		Use:   "edit <file> [prompt]",
		Short: "Edit an existing figure with a text instruction",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := ""
			if len(args) > 1 {
				prompt = args[1]
			}
			return runImageEdit(cmd.Context(), flags, args[0], prompt)
		},
	}

	cmd.Flags().StringVar(&flags.Out, "out", "figure-edited.png", "output file")

	parent.AddCommand(cmd)
}

func runImageGenerate(ctx context.Context, flags *imageFlags, prompt string) error {
	logger := GetLogger()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	size, err := resolveImageSize(flags.Size, cfg.Image.DefaultSize)
	if err != nil {
		return err
	}

	if prompt == "" {
		prompt, err = tui.Input("图片描述", "")
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(prompt) == "" {
		return errors.Wrap(errors.ErrEmptyValue, "image prompt")
	}

	proceed, err := confirmOverwrite(flags.Out)
	if err != nil {
		return err
	}
	if !proceed {
		fmt.Printf("kept existing %s\n", flags.Out)
		return nil
	}

	gen, err := newImageClient(cfg, logger)
	if err != nil {
		return err
	}

	uri, err := gen.GenerateImage(ctx, prompt, size)
	if err != nil {
		return err
	}

	return writeDataURI(flags.Out, uri)
}

// resolveImageSize picks the image quality for a generate run. An explicit
// flag value wins; otherwise the user is prompted, and non-interactive runs
// fall back to the configured default.
func resolveImageSize(flagValue, defaultValue string) (constants.ImageSize, error) {
	if flagValue != "" {
		size := constants.ImageSize(flagValue)
		if !size.Valid() {
			return "", errors.Wrapf(errors.ErrInvalidImageSize, "%q", flagValue)
		}
		return size, nil
	}

	choice, err := tui.Select("图片质量", []tui.Option{
		{Label: "1K（快速预览）", Value: string(constants.ImageSize1K)},
		{Label: "2K（常规插图）", Value: string(constants.ImageSize2K)},
		{Label: "4K（印刷质量）", Value: string(constants.ImageSize4K)},
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrMenuCanceled) {
			choice = defaultValue
		} else {
			return "", err
		}
	}

	size := constants.ImageSize(choice)
	if !size.Valid() {
		return "", errors.Wrapf(errors.ErrInvalidImageSize, "%q", choice)
	}
	return size, nil
}

// confirmOverwrite asks before clobbering an existing output file. Missing
// files and non-interactive runs proceed without a prompt; declining keeps
// the existing file.
func confirmOverwrite(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}

	ok, err := tui.Confirm(fmt.Sprintf("%s 已存在，是否覆盖？", path), false)
	if err != nil {
		if stderrors.Is(err, errors.ErrMenuCanceled) {
			return true, nil
		}
		return false, err
	}
	return ok, nil
}

func runImageEdit(ctx context.Context, flags *imageFlags, file, prompt string) error {
	logger := GetLogger()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file) //nolint:gosec // User-supplied figure path
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", file)
	}

	if prompt == "" {
		prompt, err = tui.Input("修改说明", "")
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(prompt) == "" {
		return errors.Wrap(errors.ErrEmptyInstruction, "image edit")
	}

	proceed, err := confirmOverwrite(flags.Out)
	if err != nil {
		return err
	}
	if !proceed {
		fmt.Printf("kept existing %s\n", flags.Out)
		return nil
	}

	gen, err := newImageClient(cfg, logger)
	if err != nil {
		return err
	}

	source := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	uri, err := gen.EditImage(ctx, source, prompt)
	if err != nil {
		return err
	}

	return writeDataURI(flags.Out, uri)
}

// newImageClient builds a generation client configured for image work.
func newImageClient(cfg *config.Config, logger zerolog.Logger) (genai.Service, error) {
	gen, err := genai.NewClient(genai.ClientConfig{
		BaseURL:            cfg.AI.BaseURL,
		APIKey:             os.Getenv(cfg.AI.APIKeyEnvVar),
		TextModel:          cfg.AI.Model,
		ImageGenerateModel: cfg.Image.GenerateModel,
		ImageEditModel:     cfg.Image.EditModel,
		AspectRatio:        cfg.Image.AspectRatio,
	}, &http.Client{Timeout: cfg.Image.Timeout}, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "set %s to your generation API key", cfg.AI.APIKeyEnvVar)
	}
	return gen, nil
}

// writeDataURI decodes a base64 data URI and writes the payload to path.
func writeDataURI(path, uri string) error {
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return errors.Wrap(errors.ErrImageUnavailable, "malformed data uri")
	}

	payload, err := base64.StdEncoding.DecodeString(uri[idx+1:])
	if err != nil {
		return errors.Wrap(err, "failed to decode image data")
	}

	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	fmt.Printf("wrote %s (%d bytes)\n", path, len(payload))
	return nil
}
