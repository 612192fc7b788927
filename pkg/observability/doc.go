/*
Package observability instruments form trees.

Every helper works by registering one more handler per event kind on the
nodes of a tree. Being the newest, that handler runs first, observes the
dispatch and then forwards to the rest of the chain unchanged:

  - Metrics counts dispatches per kind, times whole chains and counts
    validations that left errors, for Prometheus.
  - Tracer opens an OpenTelemetry span around every dispatch.
  - LogChanges logs every value change with its path and the old and new values.
*/
package observability
