package wtl

import "sync"

//Task is a unit of work executed by the pool.
type Task interface {
	Execute()
}

//Pool distributes tasks over a fixed number of worker goroutines.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

//NewPool starts workersNum workers that consume tasks until the pool is closed.
func NewPool(workersNum int) *Pool {
	pool := &Pool{tasks: make(chan Task)}
	for p := 0; p < workersNum; p++ {
		go func() {
			for currentTask := range pool.tasks {
				currentTask.Execute()
				pool.wg.Done()
			}
		}()
	}
	return pool
}

//AddTask submits one task to the pool.
func (pool *Pool) AddTask(task Task) {
	pool.wg.Add(1)
	pool.tasks <- task
}

//Close signals that no more tasks will be submitted.
func (pool *Pool) Close() {
	close(pool.tasks)
}

//WaitAll blocks until every submitted task has finished.
func (pool *Pool) WaitAll() {
	pool.wg.Wait()
}
