package bindrt

// Engine value types. They are copied by value across the ABI and never
// carry object identity.

type (
	Vector2     [2]float32
	Vector3     [3]float32
	Color       [4]float32
	Rect2       [4]float32
	Quat        [4]float32
	Plane       [4]float32
	AABB        [6]float32
	Basis       [9]float32
	Transform2D [6]float32
	Transform   [12]float32
	NodePath    string
	RID         uint64
	Array       []Variant
	Dictionary  map[Variant]Variant

	PoolByteArray    []byte
	PoolIntArray     []int32
	PoolRealArray    []float32
	PoolStringArray  []string
	PoolVector2Array []Vector2
	PoolVector3Array []Vector3
	PoolColorArray   []Color
)
