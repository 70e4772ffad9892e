// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the execution lifecycle of single runs,
// Monte Carlo ensembles and scenario tooling, decoupled from any specific
// entrypoint like a CLI or server.
package app
