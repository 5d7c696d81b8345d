// Package output writes report files, per-file logs and the stats CSV
// into the destination directory.
package output
