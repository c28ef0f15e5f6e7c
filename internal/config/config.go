package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Addr     string   `koanf:"addr"`
	Frontend Frontend `koanf:"frontend"`
	Storage  Storage  `koanf:"storage"`
	Auth     Auth     `koanf:"auth"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Storage struct {
	// File is the spreadsheet file holding all event records.
	File string `koanf:"file"`
}

type Auth struct {
	// TokenSecret signs session tokens. Override in any non-local deployment.
	TokenSecret     string   `koanf:"tokensecret"`
	DefaultPassword string   `koanf:"defaultpassword"`
	Admins          []string `koanf:"admins"`
	Viewers         []string `koanf:"viewers"`
	// Trainers maps a login email to the trainer name used in event records.
	Trainers map[string]string `koanf:"trainers"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Addr: ":8181",
		Frontend: Frontend{
			Enabled: true,
		},
		Storage: Storage{
			File: "scheduling_recent.csv",
		},
		Auth: Auth{
			TokenSecret:     "local-dev-secret",
			DefaultPassword: "Welcome123",
			Admins:          []string{"sues@eqstrategist.com"},
			Viewers:         []string{"joec@eqstrategist.com"},
			Trainers: map[string]string{
				"doms@eqstrategist.com":    "Dom",
				"andrewb@eqstrategist.com": "Andrew",
				"dalew@eqstrategist.com":   "Dale",
				"jackt@eqstrategist.com":   "Jack",
			},
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "SCHED_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "SCHED_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
