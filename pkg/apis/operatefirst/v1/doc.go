// Package v1 contains the operate-first.cloud/v1 acmClusterGenerator intent
// document, the single input of the generator.
package v1
