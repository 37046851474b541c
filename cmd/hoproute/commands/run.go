package commands

import (
	"os"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshnetworks/hoproute/src/announce"
	"github.com/meshnetworks/hoproute/src/common"
	"github.com/meshnetworks/hoproute/src/routing"
	"github.com/meshnetworks/hoproute/src/service"
)

//NewRunCmd returns the command that starts a hoproute node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runNode,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runNode(cmd *cobra.Command, args []string) error {
	logger := _config.Logger()

	addFileHooks(logger.Logger)

	store, err := announce.NewBadgerStore(_config.DatabaseDir)
	if err != nil {
		logger.WithError(err).Error("Cannot open announcement store")
		return err
	}
	defer store.Close()

	accounts := announce.NewCache(store, _config.CacheSize, logger)

	routingTable := routing.NewRoutingTable(
		common.SystemClock{},
		routing.RoutingTableConfig{
			RouteBackCacheSize:  _config.RouteBackCacheSize,
			RouteBackTTL:        _config.RouteBackTTL,
			LastRoutedCacheSize: _config.LastRoutedCacheSize,
		},
		logger,
	)

	if _config.NoService {
		logger.Warn("HTTP service disabled, nothing to serve")
		return nil
	}

	serviceServer := service.NewService(_config.ServiceAddr, routingTable, accounts, logger)
	serviceServer.Serve()

	return nil
}

// addFileHooks routes info and debug logs to files in the datadir,
// keeping stderr for the formatted output.
func addFileHooks(logger *logrus.Logger) {
	pathMap := lfshook.PathMap{}

	infoLog := _config.DataDir + "/hoproute_info.log"
	if _, err := os.OpenFile(infoLog, os.O_CREATE|os.O_WRONLY, 0666); err != nil {
		logger.Info("Failed to open hoproute_info.log file, using default stderr")
	} else {
		pathMap[logrus.InfoLevel] = infoLog
	}

	debugLog := _config.DataDir + "/hoproute_debug.log"
	if _, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY, 0666); err != nil {
		logger.Info("Failed to open hoproute_debug.log file, using default stderr")
	} else {
		pathMap[logrus.DebugLevel] = debugLog
	}

	logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("moniker", _config.Moniker, "Optional name")

	// Service
	cmd.Flags().StringP("service-listen", "s", _config.ServiceAddr, "Listen IP:Port for HTTP service")
	cmd.Flags().Bool("no-service", _config.NoService, "Disable the HTTP service")

	// Store
	cmd.Flags().String("db", _config.DatabaseDir, "Database directory")
	cmd.Flags().Int("cache-size", _config.CacheSize, "Number of items in the announcement caches")

	// Routing
	cmd.Flags().Int("route-back-cache-size", _config.RouteBackCacheSize, "Number of route-back entries")
	cmd.Flags().Duration("route-back-ttl", _config.RouteBackTTL, "Validity of route-back entries")
	cmd.Flags().Int("last-routed-cache-size", _config.LastRoutedCacheSize, "Number of neighbors tracked for fair tie-breaking")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.SetDataDir(_config.DataDir)

	_config.Logger().WithFields(logrus.Fields{
		"DataDir":             _config.DataDir,
		"ServiceAddr":         _config.ServiceAddr,
		"NoService":           _config.NoService,
		"LogLevel":            _config.LogLevel,
		"Moniker":             _config.Moniker,
		"DatabaseDir":         _config.DatabaseDir,
		"CacheSize":           _config.CacheSize,
		"RouteBackCacheSize":  _config.RouteBackCacheSize,
		"RouteBackTTL":        _config.RouteBackTTL,
		"LastRoutedCacheSize": _config.LastRoutedCacheSize,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/hoproute.toml (.json, .yaml also work)
	viper.SetConfigName("hoproute")      // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir) // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Logger().Debugf("No config file found in: %s", _config.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}
