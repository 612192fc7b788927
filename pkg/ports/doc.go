/*
Package ports defines the driven ports (interfaces) of the form engine.

These interfaces decouple sessions from external implementations, allowing
form snapshots to live in memory, on disk or in Redis.

# Key Interfaces

  - SnapshotStore: Persists and loads form snapshots by form ID.
  - DistributedLocker: Coordinates access to a form across replicas.
*/
package ports
