// Package node defines node identities, parameter metadata and the closed
// set of audio-side node kinds run by the engine.
//
// A NodeID names a node by kind and instance number. Its Info describes the
// ports and atoms the kind exposes, and New builds the audio-side Node that
// the executor owns once it is installed.
package node
