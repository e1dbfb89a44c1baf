package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/metal-stack/v"

	"netparental/internal/cli"
	"netparental/internal/config"
	"netparental/internal/logging"
	"netparental/internal/models"
	"netparental/internal/services"
	"netparental/internal/storage"
)

const usage = `Usage: netparental [options] <user> <password>

Manages the time restriction rules of an HG180u router over SSH.
Options must come before the positional arguments.

Entry format for -a: "<username> <days> <from>-<to>",
e.g. "Juan Mon,Tue,Wed,Thu,Fri,Sat 21:00-23:59"

Options:
`

var usageOutput io.Writer = os.Stderr

type options struct {
	configPath  string
	host        string
	enable      string
	getEnable   bool
	list        bool
	filters     bool
	add         string
	index       int
	remove      string
	devices     string
	profiles    string
	profile     string
	verbose     bool
	showVersion bool

	user     string
	password string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("netparental", flag.ContinueOnError)
	fs.SetOutput(usageOutput)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "configs/netparental.json", "Path to config file")
	fs.StringVar(&opts.host, "host", "", "Router address, overrides the config file")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version and exit")

	// short and long forms share one variable
	fs.StringVar(&opts.enable, "e", "", "Set the time restriction enable flag (1 or 0)")
	fs.StringVar(&opts.enable, "enable", "", "Set the time restriction enable flag (1 or 0)")
	fs.BoolVar(&opts.getEnable, "E", false, "Print the time restriction enable flag")
	fs.BoolVar(&opts.getEnable, "getenable", false, "Print the time restriction enable flag")
	fs.BoolVar(&opts.list, "l", false, "List the rules")
	fs.BoolVar(&opts.list, "list", false, "List the rules")
	fs.BoolVar(&opts.filters, "L", false, "Print the packet filter chain")
	fs.BoolVar(&opts.filters, "filters", false, "Print the packet filter chain")
	fs.StringVar(&opts.add, "a", "", "Add a rule from an entry string")
	fs.StringVar(&opts.add, "add", "", "Add a rule from an entry string")
	fs.IntVar(&opts.index, "i", 0, "Index for -a, default is the lowest free one")
	fs.IntVar(&opts.index, "index", 0, "Index for -a, default is the lowest free one")
	fs.StringVar(&opts.remove, "r", "", "Remove a rule by index, or every rule of a user")
	fs.StringVar(&opts.remove, "remove", "", "Remove a rule by index, or every rule of a user")
	fs.StringVar(&opts.devices, "d", "", "Device mapping file (JSON or YAML)")
	fs.StringVar(&opts.devices, "devices", "", "Device mapping file (JSON or YAML)")
	fs.StringVar(&opts.profiles, "f", "", "Profile file (JSON or YAML)")
	fs.StringVar(&opts.profiles, "profiles", "", "Profile file (JSON or YAML)")
	fs.StringVar(&opts.profile, "p", "", "Apply the named profile")
	fs.StringVar(&opts.profile, "profile", "", "Apply the named profile")
	fs.BoolVar(&opts.verbose, "v", false, "Debug logging")
	fs.BoolVar(&opts.verbose, "verbose", false, "Debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.showVersion {
		return opts, nil
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return nil, errors.New("expected <user> and <password>")
	}
	opts.user, opts.password = fs.Arg(0), fs.Arg(1)

	if opts.add != "" && opts.devices == "" {
		return nil, errors.New("-a requires a device mapping file (-d)")
	}
	if opts.profile != "" && (opts.profiles == "" || opts.devices == "") {
		return nil, errors.New("-p requires a profile file (-f) and a device mapping file (-d)")
	}
	if opts.index < 0 {
		return nil, fmt.Errorf("invalid index %d", opts.index)
	}
	if opts.enable != "" && opts.enable != "0" && opts.enable != "1" {
		return nil, fmt.Errorf("invalid enable value %q, expected 1 or 0", opts.enable)
	}
	return opts, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Printf("netparental %s\n", v.V)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.host != "" {
		cfg.Router.Host = opts.host
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Log.Level)
	logCfg.JSON = cfg.Log.JSON
	if opts.verbose {
		logCfg.Level = logging.ParseLevel("debug")
	}
	log := logging.New(logCfg)
	log.Debug("Starting netparental", "version", v.V.String(), "config", opts.configPath)

	// Mapping files are read before connecting so a typo costs no login
	var devices models.DeviceMap
	if opts.devices != "" {
		if devices, err = storage.LoadDevices(opts.devices); err != nil {
			return err
		}
		log.Debug("Loaded device mapping", "path", opts.devices, "devices", devices.Len())
	}
	var profiles models.ProfileMap
	if opts.profiles != "" {
		if profiles, err = storage.LoadProfiles(opts.profiles); err != nil {
			return err
		}
		log.Debug("Loaded profiles", "path", opts.profiles, "profiles", profiles.Names())
	}

	conn, err := services.DialSSH(services.SSHOptions{
		Host:           cfg.Router.Host,
		Port:           cfg.Router.Port,
		User:           opts.user,
		Password:       opts.password,
		KnownHostsFile: cfg.Router.KnownHostsFile,
		Timeout:        time.Duration(cfg.Router.TimeoutSeconds) * time.Second,
		Legacy:         cfg.Router.LegacyCiphers,
	}, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	shell := services.NewShell(conn, log)
	repo := storage.NewRepository(
		services.NewCfgCmd(shell, cfg.Paths.Root),
		services.NewEbtables(shell, cfg.Paths.Chain),
		services.NewShadowFile(shell, cfg.Paths.ShadowFile),
		log,
	)
	app := cli.New(repo, os.Stdout, log)
	if err := app.Load(); err != nil {
		return err
	}

	return dispatch(app, opts, devices, profiles)
}

// dispatch runs the requested actions against a loaded App.
// A profile is applied first, then the single actions in a fixed order.
func dispatch(app *cli.App, opts *options, devices models.DeviceMap, profiles models.ProfileMap) error {
	if opts.profile != "" {
		if err := app.ApplyProfile(opts.profile, profiles, devices); err != nil {
			return err
		}
	}

	if opts.getEnable {
		if err := app.PrintEnable(); err != nil {
			return err
		}
	}
	if opts.list {
		app.List()
	}
	if opts.filters {
		if err := app.PrintFilters(); err != nil {
			return err
		}
	}
	if opts.add != "" {
		if _, err := app.Add(opts.add, devices, opts.index); err != nil {
			return err
		}
	}
	if opts.enable != "" {
		if err := app.SetEnable(opts.enable); err != nil {
			return err
		}
	}
	if opts.remove != "" {
		if _, err := app.Remove(opts.remove); err != nil {
			return err
		}
	}
	return nil
}
