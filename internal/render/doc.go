// Package render expands formula templates with a flat string map.
package render
