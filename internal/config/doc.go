// Package config provides configuration parsing for wbweb.
//
// The configuration is stored in wbweb.json (or wbweb.yaml) at the site
// root. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "logLevel": "info",
//	  "render": {
//	    "maxDepth": 512,
//	    "voidElements": true,
//	    "sanitize": "ugc"
//	  },
//	  "negotiation": {
//	    "structured": ["application/json"],
//	    "markup": ["text/html"]
//	  },
//	  "server": {
//	    "port": 8080,
//	    "pagesDir": "pages"
//	  },
//	  "metrics": { "enabled": true, "path": "/metrics" },
//	  "publish": { "bucket": "my-site", "prefix": "pages/" }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := render.New(cfg.RendererConfig())
package config
