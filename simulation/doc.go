// Package simulation binds the physics world to the scene graph.
//
// A Context owns the World, the pair Registry and the scene boundary. The
// Factory creates a body and its mesh together, the Loop advances the world
// by the elapsed time and copies every body pose onto its mesh, and the
// Spawner creates randomized bodies on demand.
package simulation
