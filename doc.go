// Package globe is a retained-mode 3D scene graph for Ebitengine.
//
// A Scene owns a tree of Nodes. Group nodes only carry a transform; mesh and
// points nodes draw a Geometry with a Material; light nodes contribute a
// directional light. Each frame Draw refreshes world matrices, emits one
// RenderCommand per drawable node, sorts them back to front and rasterizes
// them with DrawTriangles32, projecting and back-face culling vertices on the
// CPU. Lit materials use a Kage shader for per-pixel bump and specular
// lighting when it is available and fall back to vertex lighting otherwise.
//
// Textures and sounds load asynchronously through a Loader. Handles start
// pending and resolve on the update goroutine when Loader.Poll runs; until
// then materials draw with placeholder appearance. Failed loads are logged at
// debug level and never resolve.
//
// Input arrives through Scene callbacks (OnClick, OnDrag, OnWheel, OnPinch and
// friends) and can be injected for tests with the Inject* methods or a JSON
// TestRunner script. OrbitControls turn those events into camera motion.
//
// Everything in the package runs on the Ebitengine update and draw
// goroutines; nothing is safe for concurrent use except Loader, whose
// decoding runs in background goroutines and hands results back via Poll.
//
//	scene := globe.NewScene(globe.NewPerspectiveCamera(75, 16.0/9, 0.1, 1000))
//	mesh := globe.NewMesh("ball", globe.NewIcosahedronGeometry(1, 4), globe.NewBasicMaterial())
//	scene.Root().AddChild(mesh)
//	_ = globe.Run(scene, globe.RunConfig{Title: "ball"})
package globe
