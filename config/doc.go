// Package config loads personjob configuration.
//
// It uses Viper to read a YAML file, layers environment variables (and an
// optional .env file loaded with godotenv) on top, and unmarshals the result
// into the caller's struct.
//
// # Usage
//
//	var cfg person.Config
//	err := config.LoadConfig("personjob", &cfg, config.WithEnvPrefix("PERSONJOB"))
//
// With the PERSONJOB prefix, PERSONJOB_INPUT_PATH overrides input.path.
package config
