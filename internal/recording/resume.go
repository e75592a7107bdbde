package recording

import "fmt"

// Resume starts a session whose log is a continuation of a prior one: every
// record of the source log up to and including keyframeLine is copied into
// the new log, except records timestamped after the keyframe; the untimed
// header is always included and no fresh header is written. Seeding uses
// blocking enqueue, history is never dropped.
//
// After seeding, elapsed time continues from the keyframe and all input
// delta state is reset so the next Update emits a full input snapshot
// instead of a delta against stale state.
func (r *Recorder) Resume(scene Scene, sourcePath, keyframeLine string) error {
	if r.recording.Load() {
		return nil
	}

	raw, ok := Field(keyframeLine, "t")
	if !ok {
		return fmt.Errorf("resume keyframe has no timestamp")
	}
	resumeT, err := ParseFloat(raw)
	if err != nil {
		return fmt.Errorf("resume keyframe timestamp: %w", err)
	}

	// Read and filter history before touching the output so a bad source
	// leaves the recorder idle.
	lines, err := r.storage.ReadLines(sourcePath)
	if err != nil {
		return err
	}

	var history []string
	for _, line := range lines {
		if rawT, ok := Field(line, "t"); ok {
			t, err := ParseFloat(rawT)
			if err != nil {
				r.logger.Warn("skipping malformed record during resume", "err", err)
			} else if t <= resumeT {
				history = append(history, line)
			}
		} else {
			// Header and other untimed records.
			history = append(history, line)
		}

		if line == keyframeLine {
			break
		}
	}

	if err := r.storage.OpenWriter(r.cfg.OutputPath); err != nil {
		return err
	}

	r.lastScene = scene
	r.done = make(chan struct{})
	r.recording.Store(true)
	go r.drain()

	for _, line := range history {
		if err := r.put(line); err != nil {
			// The drain died mid-seed and already closed storage; the new
			// log is incomplete and must not be continued.
			r.recording.Store(false)
			return fmt.Errorf("failed to seed session history: %w", err)
		}
	}

	r.elapsed = resumeT
	r.keyframeElapsed = 0

	r.lastKeys = make(map[int]struct{})
	r.lastMouseX = mouseUnset
	r.lastMouseY = mouseUnset
	r.lastButtons = [3]bool{}

	return nil
}
