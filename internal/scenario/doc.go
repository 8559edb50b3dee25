// Package scenario describes a box and its ordered items, and loads them from
// YAML files, XLSX workbooks or whole directories of either.
package scenario
