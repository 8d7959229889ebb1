// Package binding aligns sonic capture files with the experimental time
// series through the free-text comments recorded alongside it.
//
// Bind drops blank comments, keeps the last occurrence of each repeated
// comment, orders the survivors by time and then, per wave family, pairs
// every capture filename with the comment it contains. Captures that match
// nothing are spurious; Apply removes them from the waveform store and
// reorders the store so row k is the capture bound at local index k.
//
// Everything that makes the alignment uncertain (repeated comments, a
// filename containing several comments, a comment shared by several
// captures) is collected in the Report rather than failing the bind.
package binding
