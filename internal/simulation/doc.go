// Package simulation runs the autopsy pipeline.
//
// An Orchestrator owns the random source, the scenario catalog and the
// propagation engine. Each call builds a fresh SimulationResult and moves it
// through the phases baseline, scenario_applied, propagated and finalized,
// recording a snapshot of every service after each stage.
package simulation
