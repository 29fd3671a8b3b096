package physics

import "github.com/go-gl/mathgl/mgl64"

type fakeRigid struct {
	location mgl64.Vec3
	rotation mgl64.Quat
	linear   mgl64.Vec3
	angular  mgl64.Vec3
	static   bool

	linearWrites  int
	angularWrites int
}

func newFakeRigid() *fakeRigid {
	return &fakeRigid{rotation: mgl64.QuatIdent()}
}

func (f *fakeRigid) Location() mgl64.Vec3 {
	return f.location
}

func (f *fakeRigid) SetLocation(v mgl64.Vec3) {
	f.location = v
}

func (f *fakeRigid) Rotation() mgl64.Quat {
	return f.rotation
}

func (f *fakeRigid) SetRotation(q mgl64.Quat) {
	f.rotation = q
}

func (f *fakeRigid) LinearVelocity() mgl64.Vec3 {
	return f.linear
}

func (f *fakeRigid) SetLinearVelocity(v mgl64.Vec3) {
	f.linear = v
	f.linearWrites++
}

func (f *fakeRigid) AngularVelocity() mgl64.Vec3 {
	return f.angular
}

func (f *fakeRigid) SetAngularVelocity(v mgl64.Vec3) {
	f.angular = v
	f.angularWrites++
}

func (f *fakeRigid) Static() bool {
	return f.static
}

func (f *fakeRigid) Active() bool {
	return !f.static
}

type recordingDriver struct {
	name  string
	calls *[]string
}

func (d *recordingDriver) OnAttach(*Body) {
	*d.calls = append(*d.calls, d.name+".attach")
}

func (d *recordingDriver) OnStep(float64) {
	*d.calls = append(*d.calls, d.name+".step")
}

func (d *recordingDriver) OnDetach(*Body) {
	*d.calls = append(*d.calls, d.name+".detach")
}

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
