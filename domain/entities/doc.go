// Package entities provides the core domain entities of the script host.
// These types carry no behaviour beyond bookkeeping; compilation, binding and
// execution live in the application, infrastructure and host packages.
package entities
