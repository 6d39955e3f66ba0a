package scservo

import (
	"context"
	"time"
)

// Scan probes every device ID from MinDeviceID through MaxDeviceID in
// ascending order and returns the IDs that answered, in probe order.
// progress, when non-nil, is invoked once per ID before that ID's probe
// result is known.
//
// Each probe is a PING bounded by Config.ProbeTimeout; a timeout or a
// corrupted reply means "not present" and the scan continues, so the
// worst case is bounded regardless of how many devices respond. A
// transport failure aborts the scan. Cancellation is cooperative: ctx
// is checked only between probes, never mid-read, and a cancelled scan
// returns the IDs found so far along with ctx.Err().
func (m *Master) Scan(ctx context.Context, progress func(id byte)) ([]byte, error) {
	var found []byte

	for id := MinDeviceID; ; id++ {
		select {
		case <-ctx.Done():
			return found, ctx.Err()
		default:
		}

		if progress != nil {
			progress(id)
		}

		reply, err := m.Exchange(id, InstPing, nil, time.Now().Add(m.cfg.ProbeTimeout))
		switch {
		case err == nil && reply.ID == id:
			m.log.Info("device found", "id", id)
			found = append(found, id)
		case err == nil:
			m.log.Debug("reply from unexpected id", "probed", id, "replied", reply.ID)
		case IsTimeout(err) || IsFrameError(err):
			// Not present.
		default:
			return found, err
		}

		if id == MaxDeviceID {
			return found, nil
		}
	}
}
