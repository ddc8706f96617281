// Package queue provides the FIFO that speech engines drain utterance by
// utterance. Cancelling playback clears it in one call.
package queue
