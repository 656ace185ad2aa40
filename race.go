// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package vacq

// RaceEnabled is true when the race detector is active. No test in this
// package consults it.
const RaceEnabled = true
