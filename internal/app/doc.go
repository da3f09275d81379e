// Package app contains the core application logic: the headless graph host
// that assembles the kind catalog, the runtime, and the inspector, and
// drives the tick loop. It is decoupled from any specific entrypoint like a
// CLI or server.
package app
