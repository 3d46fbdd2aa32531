package command

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cbroglie/mustache"
	"github.com/chelnak/ysmrr"
	"github.com/chelnak/ysmrr/pkg/animations"
	"github.com/chelnak/ysmrr/pkg/colors"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ergomake/layeredit/internal/editing"
	"github.com/ergomake/layeredit/internal/persistence"
	"github.com/ergomake/layeredit/internal/shapestore"
	"github.com/ergomake/layeredit/internal/vectorsource"
	"github.com/ergomake/layeredit/pkg/data"
)

const SHAPE_FILE_EXT = ".lfshape"

type LayerAddOptions struct {
	// Source is the driver URI of an external layer.
	Source  string
	Dynamic bool

	// CreateTable creates the source table with this geometry type before registering the layer.
	CreateTable data.GeometryType

	// File is a shape file or a layer file saved from memory.
	File string
}

type tableInitializer interface {
	InitTable(ctx context.Context, fs *data.FeatureSet) error
}

type layerAddCommand struct {
	ws *Workspace
}

func NewLayerAdd(ws *Workspace) *layerAddCommand {
	return &layerAddCommand{ws}
}

func (c *layerAddCommand) Run(ctx context.Context, name string, opts LayerAddOptions) (data.Handle, error) {
	if (opts.Source == "") == (opts.File == "") {
		return 0, errors.New("exactly one of source or file must be given")
	}

	var layer *data.Layer
	var err error
	if opts.File != "" {
		layer, err = c.fromFile(ctx, name, opts.File)
	} else {
		layer, err = c.fromSource(ctx, name, opts)
	}
	if err != nil {
		return 0, err
	}

	if layer.Name == "" {
		return 0, errors.New("layer name cannot be empty")
	}

	return c.ws.Repository.AddLayer(ctx, layer)
}

func (c *layerAddCommand) fromFile(ctx context.Context, name, file string) (*data.Layer, error) {
	if strings.HasSuffix(file, SHAPE_FILE_EXT) {
		fs, err := shapestore.Open(file).Read(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "fail to read shape file %s", file)
		}

		if name == "" {
			name = strings.TrimSuffix(path.Base(file), SHAPE_FILE_EXT)
		}

		return &data.Layer{Name: name, Backend: data.BackendFile, Filename: file, Features: fs}, nil
	}

	saved, fs, err := persistence.LoadLayerFile(ctx, file, c.ws.Options.Region)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to read layer file %s", file)
	}

	if name == "" {
		name = saved
	}

	return &data.Layer{Name: name, Backend: data.BackendMemory, Filename: file, Features: fs}, nil
}

func (c *layerAddCommand) fromSource(ctx context.Context, name string, opts LayerAddOptions) (layer *data.Layer, err error) {
	logger := hclog.FromContext(ctx)

	sm := ysmrr.NewSpinnerManager(
		ysmrr.WithAnimation(animations.Dots),
		ysmrr.WithSpinnerColor(colors.FgHiBlue),
	)
	sm.Start()
	defer sm.Stop()

	openSpinner := sm.AddSpinner(fmt.Sprintf("Opening \"%s\"", opts.Source))
	drv, err := c.ws.open(ctx, opts.Source)
	if err != nil {
		openSpinner.Error()
		return nil, errors.Wrapf(err, "fail to open %s", opts.Source)
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(drv.Close(), "fail to close source"))
	}()
	openSpinner.Complete()

	if opts.CreateTable != "" {
		createSpinner := sm.AddSpinner("Creating table")

		initializer, ok := drv.(tableInitializer)
		if !ok {
			createSpinner.Error()
			return nil, errors.Wrapf(vectorsource.ErrUnsupportedSource, "%s cannot create tables", opts.Source)
		}

		err := initializer.InitTable(ctx, data.NewFeatureSet(opts.CreateTable))
		if err != nil {
			createSpinner.Error()
			return nil, errors.Wrap(err, "fail to create table")
		}
		createSpinner.Complete()
	}

	loadSpinner := sm.AddSpinner("Loading features")
	fs, err := drv.Load(ctx)
	if err != nil {
		loadSpinner.Error()
		return nil, errors.Wrapf(err, "fail to load %s", opts.Source)
	}
	loadSpinner.Complete()

	logger.Debug("Source loaded", "source", drv.Source(), "features", len(fs.Features))

	if name == "" {
		name = path.Base(strings.SplitN(opts.Source, "?", 2)[0])
	}

	return &data.Layer{
		Name:           name,
		Backend:        data.BackendExternal,
		Source:         drv.Source(),
		DynamicLoading: opts.Dynamic,
		Features:       fs,
	}, nil
}

type layerCreateCommand struct {
	manager *editing.Manager
}

func NewLayerCreate(manager *editing.Manager) *layerCreateCommand {
	return &layerCreateCommand{manager}
}

func (c *layerCreateCommand) Run(ctx context.Context, nl editing.NewLayer) (data.Handle, error) {
	return c.manager.CreateLayer(ctx, nl)
}

type layerListCommand struct {
	ws  *Workspace
	out io.Writer
}

func NewLayerList(ws *Workspace, out io.Writer) *layerListCommand {
	return &layerListCommand{ws, out}
}

// Run prints the layers as a table, or renders them through the mustache template file when
// template is not empty. The template sees a "layers" list.
func (c *layerListCommand) Run(ctx context.Context, template string) error {
	list := c.ws.Repository.List()
	if len(list) == 0 && template == "" {
		fmt.Fprintln(c.out, "No layers registered, add layers by running \"layeredit layer add\"")
		return nil
	}

	hclog.FromContext(ctx).Debug("Listing layers", "count", len(list), "template", template)

	rows := make([]map[string]string, 0, len(list))
	for _, l := range list {
		state := editing.ReadOnly
		if l.InteractiveEditing {
			state = editing.Editing
		}

		features := 0
		if l.Features != nil {
			features = len(l.Features.Features)
		}

		rows = append(rows, map[string]string{
			"handle":   l.Handle.String(),
			"name":     l.Name,
			"backend":  string(l.Backend),
			"state":    state.String(),
			"dirty":    strconv.FormatBool(l.Dirty),
			"features": strconv.Itoa(features),
			"location": l.Metadata().Filename,
		})
	}

	if template != "" {
		mustache.AllowMissingVariables = false
		result, err := mustache.RenderFile(template, map[string]interface{}{"layers": rows})
		if err != nil {
			return errors.Wrapf(err, "fail to render template %s", template)
		}

		fmt.Fprint(c.out, result)
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "HANDLE\tNAME\tBACKEND\tSTATE\tDIRTY\tFEATURES\tLOCATION")
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join([]string{
			r["handle"], r["name"], r["backend"], r["state"], r["dirty"], r["features"], r["location"],
		}, "\t"))
	}

	return errors.Wrap(w.Flush(), "fail to print output")
}
