package conversation

// StartRecording arms audio input. Capture itself is not implemented, so an
// enabled restaurant still gets ErrMediaUnavailable after the toggle.
func (c *Conversation) StartRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.caps.Audio {
		return ErrCapabilityDisabled
	}
	c.recording = true
	return ErrMediaUnavailable
}

// StopRecording disarms audio input.
func (c *Conversation) StopRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.caps.Audio {
		return ErrCapabilityDisabled
	}
	c.recording = false
	return nil
}

// Recording reports whether audio input is armed.
func (c *Conversation) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// StartVideo turns the video placeholder on. Like StartRecording it reports
// ErrMediaUnavailable once the flag is set.
func (c *Conversation) StartVideo() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.caps.Video {
		return ErrCapabilityDisabled
	}
	c.video = true
	return ErrMediaUnavailable
}

// StopVideo turns the video placeholder off.
func (c *Conversation) StopVideo() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.caps.Video {
		return ErrCapabilityDisabled
	}
	c.video = false
	return nil
}

// VideoActive reports whether the video placeholder is on.
func (c *Conversation) VideoActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.video
}
