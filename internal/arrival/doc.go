// Package arrival derives per-capture arrival times from a hand-drawn shape.
//
// The shape is a set of control points in the (arrival time, y) plane, where
// y is either the capture's track number or an experimental parameter read
// at the capture's experiment row. Interpolate treats y as the independent
// variable, so the shape is evaluated once per capture over the wave's whole
// local index space. Captures outside the drawn y range get Undefined.
package arrival
