// Package motion turns sparse, noisy position samples into smooth timed
// movement along a route polyline.
//
// The Animator owns one session per tracked vehicle. Each new target sample
// is classified against the vehicle's current on-screen position: forward
// motion starts an eased animation along the polyline, a small backward step
// is discarded as GPS jitter, and a large backward step teleports the vehicle
// to the corrected position. Frame timing is delegated to a Scheduler so the
// same controller runs under a render loop or a headless ticker.
package motion
