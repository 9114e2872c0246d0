package session

// Sink receives the observable outcomes of a session. RecordingStarted
// and RecordingStopped bracket every recording. Every recording that
// enters processing gets exactly one terminal call afterwards, either
// TranscriptionSuccess or TranscriptionFailure. Recordings that never
// produce audio get CaptureFailure instead, or nothing at all when the
// recording was empty or too short to be worth transcribing.
//
// Calls may arrive from the controller's internal goroutines.
// Implementations must not call back into the controller.
type Sink interface {
	RecordingStarted()
	RecordingStopped(frames int)
	TranscriptionSuccess(text string)
	TranscriptionFailure(kind, message string)
	CaptureFailure(message string)
}
