/*
Package bfa reads and writes the BFA (binned frame archive) trajectory
format: a zstd-compressed text stream of fixed-point coordinates.

A file starts with header lines of the form key=value, followed by a
line "** N" giving the number of atoms per frame. Each frame is then N
lines of "symbol x y z", with the coordinates as integers in units of
10^-prec (prec comes from the header, default 2), terminated by a line
starting with "*" that optionally carries the nine components of the
unit cell matrix, row-major, in plain floating point.

The per-atom chemical symbols repeat in every frame and must not
change between frames; the reader keeps the ones from the first frame.
*/
package bfa
