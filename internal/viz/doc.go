// Package viz holds the rendering pieces shared by the terminal view, the
// window and the SVG export.
//
//   - [Canvas]: Braille canvas with a world projection for drawing a cloth
//     snapshot in a terminal
//   - [StretchColor]: link color from its stretch ratio
//   - [Recorder]: collects canvas frames and writes an animated GIF
//   - Themes and lipgloss styles for the terminal panels
package viz
