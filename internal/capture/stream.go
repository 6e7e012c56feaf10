// SPDX-License-Identifier: MIT
/*
Package capture bridges a PortAudio input device to the haptic device
core. The stream callback converts each captured frame to normalized
float64 samples, runs it through Device.ProcessAudio and hands the
resulting command to ExecuteVibration, whose dispatch queue keeps the
callback free of delivery latency.
*/
package capture

import (
	"errors"
	"os"
	"sync/atomic"
	"time"

	"haptic/internal/config"
	"haptic/internal/device"
	applog "haptic/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
)

var errAlreadyRecording = errors.New("already recording")

// Stream owns the PortAudio input stream and the optional WAV
// recording of the captured audio.
type Stream struct {
	cfg *config.Config
	dev *device.Device

	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	// Pre-allocated conversion buffer for the hot path.
	samples []float64

	// Recording state, managed atomically so the callback can check it
	// without locking.
	isRecording int32
	outputFile  *os.File
	wavEncoder  *wav.Encoder
	sampleBuf   *audio.IntBuffer
}

// NewStream prepares a capture stream feeding the given device. Mono
// capture only; the haptic mapping has no use for stereo position.
func NewStream(cfg *config.Config, dev *device.Device) (*Stream, error) {
	inputDevice, err := InputDevice(cfg.DeviceID)
	if err != nil {
		return nil, err
	}

	s := &Stream{
		cfg:         cfg,
		dev:         dev,
		inputDevice: inputDevice,
		samples:     make([]float64, cfg.FramesPerBuffer),
	}

	if cfg.LowLatency {
		s.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		s.inputLatency = inputDevice.DefaultHighInputLatency
	}

	return s, nil
}

// Start opens and starts the input stream. The PortAudio callback
// begins firing immediately.
func (s *Stream) Start() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: 1,
			Device:   s.inputDevice,
			Latency:  s.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0,
			Device:   nil,
		},
		FramesPerBuffer: s.cfg.FramesPerBuffer,
		SampleRate:      s.cfg.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, s.processInput)
	if err != nil {
		return err
	}
	s.inputStream = stream

	if err := s.inputStream.Start(); err != nil {
		s.inputStream.Close()
		return err
	}

	return nil
}

// Stop stops and closes the input stream.
func (s *Stream) Stop() error {
	if s.inputStream != nil {
		if err := s.inputStream.Stop(); err != nil {
			return err
		}
		if err := s.inputStream.Close(); err != nil {
			return err
		}
		s.inputStream = nil
	}
	return nil
}

// processInput is the capture callback. It stays allocation-free: the
// float32 frame is converted into the pre-allocated sample buffer,
// processed, and the command handed to the non-blocking dispatch path.
func (s *Stream) processInput(in []float32) {
	n := len(in)
	if n > len(s.samples) {
		n = len(s.samples)
	}
	for i := 0; i < n; i++ {
		s.samples[i] = float64(in[i])
	}

	result, err := s.dev.ProcessAudio(s.samples[:n])
	if err != nil {
		applog.Errorf("Capture: process error: %v", err)
		return
	}
	if result.AudioDisabled {
		return
	}

	if _, err := s.dev.ExecuteVibration(result.Command); err != nil {
		applog.Errorf("Capture: vibration dispatch error: %v", err)
	}

	if atomic.LoadInt32(&s.isRecording) == 1 && s.wavEncoder != nil {
		s.sampleBuf.Data = s.sampleBuf.Data[:cap(s.sampleBuf.Data)]
		for i := 0; i < n; i++ {
			s.sampleBuf.Data[i] = int(s.samples[i] * 0x7FFF)
		}
		s.sampleBuf.Data = s.sampleBuf.Data[:n]
		if err := s.wavEncoder.Write(s.sampleBuf); err != nil {
			applog.Errorf("Capture: error writing to WAV file: %v", err)
		}
	}
}

// StartRecording begins writing the captured audio to a 16-bit mono
// WAV file.
func (s *Stream) StartRecording(filename string) error {
	if atomic.LoadInt32(&s.isRecording) == 1 {
		return errAlreadyRecording
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	s.outputFile = file

	s.wavEncoder = wav.NewEncoder(file, int(s.cfg.SampleRate), 16, 1, 1)
	s.sampleBuf = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  int(s.cfg.SampleRate),
		},
		Data: make([]int, s.cfg.FramesPerBuffer),
	}

	atomic.StoreInt32(&s.isRecording, 1)
	return nil
}

// StopRecording finalizes and closes the WAV file. No-op when not
// recording.
func (s *Stream) StopRecording() error {
	if atomic.LoadInt32(&s.isRecording) == 0 {
		return nil
	}
	atomic.StoreInt32(&s.isRecording, 0)

	if s.wavEncoder != nil {
		if err := s.wavEncoder.Close(); err != nil {
			return err
		}
		s.wavEncoder = nil
	}
	if s.outputFile != nil {
		if err := s.outputFile.Close(); err != nil {
			return err
		}
		s.outputFile = nil
	}
	return nil
}

// Close stops any active recording and the input stream.
func (s *Stream) Close() error {
	if atomic.LoadInt32(&s.isRecording) == 1 {
		if err := s.StopRecording(); err != nil {
			return err
		}
	}
	return s.Stop()
}
