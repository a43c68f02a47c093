package constellation

import "sync"

// shutdownCoordinator runs the final, once-only teardown sequence after
// every worker and the coordinator have been observed drained: cancel the
// root context, wait for the coordinator goroutine and every executor
// goroutine to exit, then run onTerminate.
type shutdownCoordinator struct {
	cancel      func()
	coordDone   <-chan struct{}
	workerDone  []<-chan struct{}
	onTerminate func()

	once sync.Once
}

func newShutdownCoordinator(cancel func(), coordDone <-chan struct{}, workerDone []<-chan struct{}, onTerminate func()) *shutdownCoordinator {
	return &shutdownCoordinator{cancel: cancel, coordDone: coordDone, workerDone: workerDone, onTerminate: onTerminate}
}

func (s *shutdownCoordinator) finish() {
	s.once.Do(func() {
		s.cancel()
		<-s.coordDone
		for _, d := range s.workerDone {
			<-d
		}
		if s.onTerminate != nil {
			s.onTerminate()
		}
	})
}
