package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/host"
	"github.com/reglet-dev/scripthost/infrastructure/parser"
	"github.com/reglet-dev/scripthost/internal/imageio"
)

type runOptions struct {
	entry       string
	params      []string
	images      []string
	paramsFile  string
	writeImages string
}

func newRunCommand(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Load a script and execute its entry method once",
		Example: `  scripthost run median.js --param FilterSize=5 --image WorkImage=lena.png --write-images out/
  scripthost run median.js --params params.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.entry, "entry", "Run", "name of the entry method")
	f.StringArrayVar(&opts.params, "param", nil, "input value as key=value (repeatable)")
	f.StringArrayVar(&opts.images, "image", nil, "input PNG image as key=file (repeatable)")
	f.StringVar(&opts.paramsFile, "params", "", "YAML file with version, entry, values and images sections")
	f.StringVar(&opts.writeImages, "write-images", "", "directory receiving the images as <key>.png after execution")
	f.String("metrics-file", "", "write Prometheus metrics to this textfile after the run")
	return cmd
}

func (a *app) run(cmd *cobra.Command, script string, opts *runOptions) error {
	ctx := cmd.Context()

	params, fileEntry, err := buildParams(opts)
	if err != nil {
		return err
	}
	entry := opts.entry
	if fileEntry != "" && !cmd.Flags().Changed("entry") {
		entry = fileEntry
	}

	runner, err := a.newRunner(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = runner.Close(ctx) }()

	if err := a.load(ctx, runner, script, entry); err != nil {
		return a.finish(err)
	}

	execErr := runner.Execute(ctx, params)

	out := cmd.OutOrStdout()
	for _, msg := range runner.Notifications() {
		fmt.Fprintf(cmd.ErrOrStderr(), "> %s\n", msg)
	}
	if execErr != nil {
		return a.finish(execErr)
	}

	results := params.Results()
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s=%s\n", k, results[k])
	}

	if opts.writeImages != "" {
		if err := writeImages(params, opts.writeImages); err != nil {
			return a.finish(err)
		}
	}
	return a.finish(nil)
}

// finish flushes metrics, if configured, and passes err through.
func (a *app) finish(err error) error {
	if a.cfg.MetricsFile == "" {
		return err
	}
	if mErr := a.metrics.WriteTextfile(a.cfg.MetricsFile); mErr != nil {
		a.logger.Error("metrics not written", "path", a.cfg.MetricsFile, "error", mErr)
	}
	return err
}

// buildParams merges the params file with flags; flags win. It also returns
// the entry named by the params file, if any.
func buildParams(opts *runOptions) (*host.Params, string, error) {
	spec := &entities.ParamSpec{Values: map[string]string{}, Images: map[string]string{}}

	if opts.paramsFile != "" {
		data, err := os.ReadFile(opts.paramsFile)
		if err != nil {
			return nil, "", err
		}
		spec, err = parser.NewYamlParamsParser().Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", opts.paramsFile, err)
		}
		base := filepath.Dir(opts.paramsFile)
		for k, path := range spec.Images {
			if !filepath.IsAbs(path) {
				spec.Images[k] = filepath.Join(base, path)
			}
		}
	}

	for _, kv := range opts.params {
		k, v, err := splitPair(kv, "--param")
		if err != nil {
			return nil, "", err
		}
		spec.Values[k] = v
	}
	for _, kv := range opts.images {
		k, v, err := splitPair(kv, "--image")
		if err != nil {
			return nil, "", err
		}
		spec.Images[k] = v
	}

	p := host.NewParams()
	for k, v := range spec.Values {
		p.SetParam(k, v)
	}
	for k, path := range spec.Images {
		img, err := imageio.ReadFile(path, k)
		if err != nil {
			return nil, "", err
		}
		if err := p.SetImage(k, img.Width, img.Height, img.Stride, img.Pix); err != nil {
			return nil, "", err
		}
	}
	return p, spec.Entry, nil
}

func splitPair(kv, flag string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("%s %q: expected key=value", flag, kv)
	}
	return k, v, nil
}

func writeImages(p *host.Params, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, k := range p.ImageKeys() {
		img, _ := p.Image(k)
		if err := imageio.WriteFile(filepath.Join(dir, k+".png"), img); err != nil {
			return err
		}
	}
	return nil
}
