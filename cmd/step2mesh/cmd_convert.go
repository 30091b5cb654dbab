package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahaarbo/step-to-meshes/internal/cad"
	"github.com/mahaarbo/step-to-meshes/internal/config"
	"github.com/mahaarbo/step-to-meshes/internal/export"
	"github.com/mahaarbo/step-to-meshes/internal/logger"
	"github.com/mahaarbo/step-to-meshes/internal/meshlab"
	"github.com/mahaarbo/step-to-meshes/internal/pipeline"
)

var (
	convertConfigPath     string
	convertOutput         string
	convertExtension      string
	convertNumSimplify    int
	convertNumCHull       int
	convertGlobalOrigin   bool
	convertVerbose        bool
	convertSimplifyScript string
	convertCHullScript    string
	convertEngineTimeout  time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert <cadfile>",
	Short: "Convert a CAD assembly into per-part mesh folders",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,

	SilenceUsage: true,
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&convertConfigPath, "config", "", "path to config file")
	f.StringVarP(&convertOutput, "output", "o", "", "output mesh folder (default \"meshes\")")
	f.StringVar(&convertExtension, "file-extension", "", "mesh file extension: .stl, .obj, .dae or .amf (default \".stl\")")
	f.IntVar(&convertNumSimplify, "num-simplify", 0, "decimation iterations for the full mesh, 0 skips (default 10)")
	f.IntVar(&convertNumCHull, "num-chull", 0, "decimation iterations for the hull mesh (default 10)")
	f.BoolVar(&convertGlobalOrigin, "use-design-global-origin", false, "embed mesh origins at the assembly's global frame instead of each part's local frame")
	f.BoolVar(&convertVerbose, "verbose", false, "debug logging plus the engine's own output")
	f.StringVar(&convertSimplifyScript, "simplify-script", "", "engine transform script for decimation (default: built-in)")
	f.StringVar(&convertCHullScript, "chull-script", "", "engine transform script for convex hulls (default: built-in)")
	f.DurationVar(&convertEngineTimeout, "engine-timeout", 0, "timeout per engine invocation, 0 for none")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(convertConfigPath)
	if err != nil {
		return err
	}
	applyConvertFlags(cmd, cfg)

	// Format validation is the only pre-flight: a bad --file-extension must
	// fail before any file is touched.
	format, err := export.ParseFormat(cfg.Pipeline.FileExtension)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if convertVerbose {
		level = "debug"
	}
	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	log := logger.New(level, fileCfg)
	defer log.Sync()

	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}

	scriptDir := filepath.Join(cfg.Pipeline.OutputDir, ".mlx")
	simplifyScript, err := meshlab.EnsureScript(cfg.Engine.SimplifyScript, scriptDir, meshlab.SimplifyScript)
	if err != nil {
		return err
	}
	chullScript, err := meshlab.EnsureScript(cfg.Engine.CHullScript, scriptDir, meshlab.CHullScript)
	if err != nil {
		return err
	}

	engine := meshlab.NewEngine(log)
	engine.Command = cfg.Engine.Command
	engine.OptArgs = cfg.Engine.OptArgs
	engine.Timeout = time.Duration(cfg.Engine.Timeout)
	engine.Verbose = convertVerbose

	p := pipeline.New(
		export.New(log),
		meshlab.NewReducer(engine, log),
		pipeline.Options{
			OutputDir:       cfg.Pipeline.OutputDir,
			Format:          format,
			NumSimplify:     cfg.Pipeline.NumSimplify,
			NumCHull:        cfg.Pipeline.NumCHull,
			UseGlobalOrigin: cfg.Pipeline.UseGlobalOrigin,
			SimplifyScript:  simplifyScript,
			CHullScript:     chullScript,
		},
		log,
	)

	res, err := p.Run(cmd.Context(), doc)
	if err != nil {
		return err
	}
	if n := len(res.Failed); n > 0 {
		return fmt.Errorf("%d of %d parts failed", n, res.UniqueParts)
	}
	return nil
}

// applyConvertFlags lays flag values over the loaded config; flags win only
// when set.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Pipeline.OutputDir = convertOutput
	}
	if f.Changed("file-extension") {
		cfg.Pipeline.FileExtension = convertExtension
	}
	if f.Changed("num-simplify") {
		cfg.Pipeline.NumSimplify = convertNumSimplify
	}
	if f.Changed("num-chull") {
		cfg.Pipeline.NumCHull = convertNumCHull
	}
	if convertGlobalOrigin {
		cfg.Pipeline.UseGlobalOrigin = true
	}
	if f.Changed("simplify-script") {
		cfg.Engine.SimplifyScript = convertSimplifyScript
	}
	if f.Changed("chull-script") {
		cfg.Engine.CHullScript = convertCHullScript
	}
	if f.Changed("engine-timeout") {
		cfg.Engine.Timeout = config.Duration(convertEngineTimeout)
	}
}

// openDocument loads the CAD document for a file. Assembly manifests are
// handled in-process; STEP and native CAD formats need an external kernel
// binding and are rejected with a pointer at the manifest format.
func openDocument(path string) (cad.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return cad.LoadAssembly(path)
	default:
		return nil, fmt.Errorf("no CAD kernel binding for %q: convert the file with a kernel that emits a .assembly.yaml manifest, or point step2mesh at one directly", path)
	}
}
