package config

// Version is the algocanvas binary version, set at build time via
// -ldflags "-X github.com/algocanvas/algocanvas/internal/config.Version=<tag>".
var Version = "dev"
