package sph

// kinematics is one buffer of per-particle position and velocity.
type kinematics struct {
	PosX, PosY []float32
	VelX, VelY []float32
}

func newKinematics(capacity int) kinematics {
	return kinematics{
		PosX: make([]float32, 0, capacity),
		PosY: make([]float32, 0, capacity),
		VelX: make([]float32, 0, capacity),
		VelY: make([]float32, 0, capacity),
	}
}

func (k *kinematics) push(x, y float32) {
	k.PosX = append(k.PosX, x)
	k.PosY = append(k.PosY, y)
	k.VelX = append(k.VelX, 0)
	k.VelY = append(k.VelY, 0)
}

func (k *kinematics) truncate() {
	k.PosX = k.PosX[:0]
	k.PosY = k.PosY[:0]
	k.VelX = k.VelX[:0]
	k.VelY = k.VelY[:0]
}

// Store is a structure-of-arrays particle container with a hard capacity.
//
// Position and velocity live in two buffers. Passes read front; integration writes
// back; swap exchanges them at the end of a tick. Force, density and pressure are
// single-buffered and recomputed every tick.
type Store struct {
	capacity int

	front kinematics
	back  kinematics

	ForceX, ForceY []float32
	Density        []float32
	Pressure       []float32
}

// NewStore creates an empty store that will never hold more than capacity particles.
func NewStore(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{
		capacity: capacity,
		front:    newKinematics(capacity),
		back:     newKinematics(capacity),
		ForceX:   make([]float32, 0, capacity),
		ForceY:   make([]float32, 0, capacity),
		Density:  make([]float32, 0, capacity),
		Pressure: make([]float32, 0, capacity),
	}
}

// Len returns the number of particles.
func (s *Store) Len() int { return len(s.front.PosX) }

// Cap returns the maximum number of particles.
func (s *Store) Cap() int { return s.capacity }

// Full reports whether another Push would be rejected.
func (s *Store) Full() bool { return s.Len() >= s.capacity }

// Push adds a particle at rest. It returns false without modifying the store when the
// store is at capacity.
func (s *Store) Push(x, y float32) bool {
	if s.Full() {
		return false
	}
	s.front.push(x, y)
	s.back.push(x, y)
	s.ForceX = append(s.ForceX, 0)
	s.ForceY = append(s.ForceY, 0)
	s.Density = append(s.Density, 0)
	s.Pressure = append(s.Pressure, 0)
	return true
}

// Clear removes every particle. Capacity is unchanged.
func (s *Store) Clear() {
	s.front.truncate()
	s.back.truncate()
	s.ForceX = s.ForceX[:0]
	s.ForceY = s.ForceY[:0]
	s.Density = s.Density[:0]
	s.Pressure = s.Pressure[:0]
}

// Position returns the current position of particle i.
func (s *Store) Position(i int) Vec2 {
	return Vec2{s.front.PosX[i], s.front.PosY[i]}
}

// Velocity returns the current velocity of particle i.
func (s *Store) Velocity(i int) Vec2 {
	return Vec2{s.front.VelX[i], s.front.VelY[i]}
}

// Force returns the force accumulated for particle i in the last tick.
func (s *Store) Force(i int) Vec2 {
	return Vec2{s.ForceX[i], s.ForceY[i]}
}

// SetVelocity overwrites the velocity of particle i. It must not be called during a tick.
func (s *Store) SetVelocity(i int, v Vec2) {
	s.front.VelX[i] = v.X
	s.front.VelY[i] = v.Y
}

// SetPosition overwrites the position of particle i. It must not be called during a tick.
func (s *Store) SetPosition(i int, p Vec2) {
	s.front.PosX[i] = p.X
	s.front.PosY[i] = p.Y
}

// AppendPositions appends the current positions to dst and returns the extended slice.
func (s *Store) AppendPositions(dst []Vec2) []Vec2 {
	for i := range s.front.PosX {
		dst = append(dst, Vec2{s.front.PosX[i], s.front.PosY[i]})
	}
	return dst
}

// swap publishes the back buffer written by integration.
func (s *Store) swap() {
	s.front, s.back = s.back, s.front
}
