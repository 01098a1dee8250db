// Package render holds the output renderers for ordered graphs.
//
// The [nodelink] subpackage draws a layered graph with Graphviz, pinning
// each row to the order an orderer chose so the drawing shows exactly the
// crossings that were counted.
package render
