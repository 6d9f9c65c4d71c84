package supervisor

import "time"

// StartReconciler runs ReconcileOwned on the given interval until
// StopReconciler is called. Starting twice replaces the previous loop.
func (s *Supervisor) StartReconciler(interval time.Duration) {
	s.StopReconciler()
	stop := make(chan struct{})
	s.reconStop = stop
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.ReconcileOwned()
			case <-stop:
				return
			}
		}
	}()
}

func (s *Supervisor) StopReconciler() {
	if s.reconStop != nil {
		close(s.reconStop)
		s.reconStop = nil
	}
}

// StartScanner runs FullScan on the given interval until StopScanner is
// called. The first scan fires immediately so adopted externals show up
// without waiting a full interval.
func (s *Supervisor) StartScanner(interval time.Duration) {
	s.StopScanner()
	stop := make(chan struct{})
	s.scanStop = stop
	go func() {
		_ = s.FullScan()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				_ = s.FullScan()
			case <-stop:
				return
			}
		}
	}()
}

func (s *Supervisor) StopScanner() {
	if s.scanStop != nil {
		close(s.scanStop)
		s.scanStop = nil
	}
}
