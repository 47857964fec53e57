package audio

// Int16ToBytes converts PCM samples to little-endian bytes, the layout
// the WebRTC VAD and the streaming endpoint use on the wire.
func Int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

// BytesToInt16 converts little-endian s16le bytes to PCM samples.
// A trailing odd byte is dropped.
func BytesToInt16(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return out
}

// Frames splits pcm into consecutive frames of frameSamples each.
// The final partial frame is dropped; the VAD cannot classify it.
func Frames(pcm []int16, frameSamples int) [][]int16 {
	if frameSamples <= 0 {
		return nil
	}
	var frames [][]int16
	for off := 0; off+frameSamples <= len(pcm); off += frameSamples {
		frames = append(frames, pcm[off:off+frameSamples])
	}
	return frames
}
