package common

// PackageName identifies this project in logs.
const PackageName = "keyexport"

// Version is set at build time via -ldflags.
var Version = "dev"
