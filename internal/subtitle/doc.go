// Package subtitle renders timed transcript segments as SRT and WebVTT files.
//
// The two formats share cue content and differ only in header, cue numbering,
// and the millisecond separator (comma for SRT, period for WebVTT). Writers
// create parent directories and validate their own output so a malformed file
// never reaches the media directory unnoticed.
package subtitle
