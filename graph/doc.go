// SPDX-License-Identifier: EPL-2.0

/*
Package graph implements a pull-based signal node runtime for
real-time audio rendering.

Every playable element implements the Node contract: a consumer
requests frames with Read and the producer fills an interleaved
buffer, reporting how many frames it actually made. A return of 0
means the node is out of data. Optional operations such as Mark,
Reset and the position queries report lack of support with a -1 or
false sentinel instead of an error, since they are called from the
render path.

The runtime assumes two execution contexts: a control context that
builds graphs and adjusts parameters, and exactly one render callback
that pulls the top node under a deadline. Shared parameters are held
in independent atomics so the callback never blocks or locks. There
is no ordering guarantee across parameters: a read may observe a new
rotation angle before a frequency set in the same control action.
Disposal is a control responsibility; the Polling flag lets a
disposer detect a racing read but does not prevent one.

Streamed players are the one exception to the no-blocking rule. Their
page refills perform file I/O and must be driven from the control
side or a decode worker.
*/
package graph
