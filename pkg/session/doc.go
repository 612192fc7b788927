/*
Package session serializes access to persisted forms.

A Manager rebuilds a form tree from its factory, restores the stored snapshot
into it, hands it to the caller and, for updates, validates and saves the
result. Access to one form ID is serialized locally with reference-counted
locks and, optionally, across replicas with a ports.DistributedLocker.
*/
package session
