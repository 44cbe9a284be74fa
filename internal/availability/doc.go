// Package availability turns raw portal reservation records into canonical
// reservations, derives the free gaps of each room inside the working-hours
// window, and decides whether a proposed booking conflicts with them.
//
// Everything here is pure: callers fetch a fresh snapshot of reservations
// for every query and hand it in. Nothing is cached between calls.
package availability
