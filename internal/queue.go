package internal

// Job is a schedulable unit of work. Its pointer is its identity: queues
// dedupe jobs by ticket, never by the function they wrap.
type Job struct {
	id uint64
	fn func()
}

func (j *Job) ID() uint64 { return j.id }

func (j *Job) Run() { j.fn() }

// JobQueue is an ordered list of jobs with no duplicate at any instant.
type JobQueue struct {
	jobs   []*Job
	queued map[*Job]struct{}
}

func NewJobQueue() *JobQueue {
	return &JobQueue{
		jobs:   make([]*Job, 0),
		queued: make(map[*Job]struct{}),
	}
}

// Enqueue appends job unless it is already queued.
func (q *JobQueue) Enqueue(job *Job) bool {
	if _, ok := q.queued[job]; ok {
		return false
	}

	q.queued[job] = struct{}{}
	q.jobs = append(q.jobs, job)
	return true
}

// Shift removes and returns the front job.
func (q *JobQueue) Shift() (*Job, bool) {
	if len(q.jobs) == 0 {
		return nil, false
	}

	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	delete(q.queued, job)

	return job, true
}

// Take returns every queued job in order and leaves the queue empty.
func (q *JobQueue) Take() []*Job {
	jobs := q.jobs
	q.jobs = make([]*Job, 0, len(jobs))
	clear(q.queued)

	return jobs
}

func (q *JobQueue) Has(job *Job) bool {
	_, ok := q.queued[job]
	return ok
}

func (q *JobQueue) Len() int {
	return len(q.jobs)
}

func (q *JobQueue) Clear() {
	clear(q.jobs)
	q.jobs = q.jobs[:0]
	clear(q.queued)
}
