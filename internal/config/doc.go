// Package config provides configuration parsing for the console CLI.
//
// The configuration is stored in console.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "router": {
//	    "maxRedirects": 10,
//	    "matchMode": "prefer_static",
//	    "routes": "./routes.yaml"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {"namespace": "console"},
//	  "tracing": {"tracerName": "console/router"},
//	  "identity": {"database": "./data/identity.db"},
//	  "domain": {
//	    "domainId": "domain-123",
//	    "name": "acme",
//	    "authType": "LOCAL"
//	  }
//	}
//
// Every key is optional.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tree, err := router.Build(decls, cfg.RouterOptions()...)
package config
