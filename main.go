package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	goflags "github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	eventcal "github.com/derWhity/eventcal/internal"
	"github.com/derWhity/eventcal/internal/ctxhelper"
	"github.com/derWhity/eventcal/internal/database"
	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/models"
	eventrepo "github.com/derWhity/eventcal/internal/repos/event/sqlite"
	sessionrepo "github.com/derWhity/eventcal/internal/repos/session/inmem"
	userrepo "github.com/derWhity/eventcal/internal/repos/user/inmem"
	venuerepo "github.com/derWhity/eventcal/internal/repos/venue/sqlite"
	"github.com/derWhity/eventcal/internal/search"
)

const (
	appName    = "eventcal"
	appVersion = "0.1.0"
)

type options struct {
	Config string `long:"config" description:"The configuration file (JSON or YAML) to load the application's configuration from"`
}

// Checks and tries to create the given directory recursively (or panics if this fails)
func checkAndCreateDir(path string, logger *logrus.Entry) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WithField(log.FldPath, path).Info("Directory does not exist - trying to create...")
			if err = os.MkdirAll(path, os.ModePerm); err != nil {
				logger.WithError(err).Fatal("Failed to create directory")
			}
			logger.Info("Directory created successfully")
		} else {
			logger.WithError(err).Fatal("Stat has failed")
		}
	} else if !fileInfo.IsDir() {
		logger.Fatalf("'%s' is not a directory. Remove the plain file if you want to continue", path)
	}
}

func main() {
	configFile, err := models.DefaultConfigFile()
	if err != nil {
		panic(err)
	}
	opts := options{Config: configFile}
	if _, err := goflags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Initialize the logger
	logger := logrus.WithField(log.FldVersion, appVersion)
	logger.Infof("%s version %s is starting up...", appName, appVersion)
	ctx := ctxhelper.WithLogger(context.Background(), logger)

	// Load the main configuration file
	cs := eventcal.NewConfigService(opts.Config)
	if err := cs.Load(ctx); err != nil {
		logger.WithError(err).Error("Cannot load config. Using defaults")
	}
	conf := cs.GetConfig(ctx)
	if level, err := logrus.ParseLevel(conf.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logger.WithError(err).Warn("Illegal log level in configuration - keeping the default")
	}

	logger.Infof("Using '%s' as data directory", conf.DataDir)
	checkAndCreateDir(conf.DataDir, logger)

	// Set up the database connection and perform pending migrations
	db, err := database.Open(database.PathIn(conf.DataDir), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open the database. Please check it for consistency and try again.")
	}
	defer db.Close()

	// Prepare the in-memory user repo and fill it with the default user
	userRepo := userrepo.New()
	u := models.User{
		Name:     strings.ToLower(conf.DefaultUser.Name),
		FullName: conf.DefaultUser.Name,
	}
	if err = u.SetPassword(conf.DefaultUser.Password); err != nil {
		logger.WithError(err).Fatal("Failed to set password for default user")
	}
	if err = userRepo.Create(&u); err != nil {
		logger.WithError(err).Fatal("Failed to create default user")
	}
	logger.Infof("Created user '%s'", u.Name)

	builder := search.Builder{
		DefaultLimit: conf.Search.DefaultLimit,
		MaxLimit:     conf.Search.MaxLimit,
	}
	venueRepo := venuerepo.New(db, logger)
	eventRepo := eventrepo.New(db, builder, logger)
	sessionRepo := sessionrepo.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	evSrv := eventcal.NewInstrumentingEventService(eventcal.NewEventService(eventRepo, venueRepo, logger), reg)
	veSrv := eventcal.NewVenueService(venueRepo, logger)
	sessServ := eventcal.NewSessionService(sessionRepo, userRepo, logger)

	httpLogger := logger.WithField(log.FldTransport, "HTTP")

	h := eventcal.MakeHTTPHandler(
		evSrv,
		veSrv,
		sessServ,
		reg,
		httpLogger,
	)

	// Start listening
	errs := make(chan error)

	// Listen for stop signals that will end the service
	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		err := fmt.Errorf("%s", <-c)
		logger.Info("Caught signal to stop. Shutting down.")
		errs <- err
	}()

	go func() {
		httpLogger.WithField("addr", conf.ListenAddress).Info("Starting listening port")
		errs <- http.ListenAndServe(conf.ListenAddress, h)
	}()

	// Watchdog for systemd
	go func() {
		interval, err := daemon.SdWatchdogEnabled(false)
		if err != nil || interval == 0 {
			return
		}
		logger.Info("Activating systemd watchdog goroutine")
		port := conf.ListenAddress[strings.LastIndex(conf.ListenAddress, ":")+1:]
		url := fmt.Sprintf("http://127.0.0.1:%s/alive", port)
		for {
			if res, err := http.Get(url); err == nil {
				res.Body.Close()
				daemon.SdNotify(false, "WATCHDOG=1")
			}
			time.Sleep(interval / 3)
		}
	}()

	// Notify systemd that we are ready to go (if available)
	daemon.SdNotify(false, "READY=1")

	logger.WithError(<-errs).Error("Shutdown complete")
}
