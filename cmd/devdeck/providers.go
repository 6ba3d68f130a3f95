package main

// Blank imports wire in the self-registering git provider adapters. The
// config's git.provider field selects one by name at startup.

import (
	_ "github.com/devdeck/devdeck/internal/adapter/gitcli"
)
