// Package whisperx runs a local WhisperX model as the offline speech
// recognition backend.
//
// Transcribe converts the downloaded audio into mono 16kHz WAV with ffmpeg,
// invokes WhisperX through uvx with JSON output, and loads the resulting
// segments. Model, CUDA, and VAD settings come from Config.
package whisperx
