package config

// EnvConfig is the environment variable that overrides the config file path.
const EnvConfig = "DRIVEINDEX_CONFIG"
