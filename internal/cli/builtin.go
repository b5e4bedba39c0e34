package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/ports"
	"github.com/reglet-dev/scripthost/internal/hostctx"
	"github.com/reglet-dev/scripthost/internal/imageio"
)

// hostModule is offered to scripts as require("host").
func hostModule(logger *slog.Logger) map[string]ports.NativeFunc {
	return map[string]ports.NativeFunc{
		"log": func(ctx context.Context, args ...any) (any, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = fmt.Sprint(arg)
			}
			logger.InfoContext(ctx, strings.Join(parts, " "), "source", "script")
			return nil, nil
		},
		"notify": func(ctx context.Context, args ...any) (any, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("notify expects a message")
			}
			hostctx.Notifier(ctx)(fmt.Sprint(args[0]))
			return nil, nil
		},
		"saveImage": func(ctx context.Context, args ...any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("saveImage expects an image and a path")
			}
			img, ok := args[0].(*entities.Image)
			if !ok {
				return nil, fmt.Errorf("saveImage: first argument is not an image")
			}
			path := fmt.Sprint(args[1])
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, err
			}
			if err := imageio.WriteFile(path, img); err != nil {
				return nil, err
			}
			logger.DebugContext(ctx, "image saved", "path", path, "key", img.Key)
			return path, nil
		},
		"version": func(context.Context, ...any) (any, error) {
			return Version, nil
		},
	}
}
