// Package wave defines the acoustic wave families captured during rock and
// material testing (P, Sx, Sy) and the filename classification rules that
// route raw capture files to a family.
//
// Active waves are always passed around explicitly as a Set; nothing in the
// repository derives the active set from ambient state.
package wave
