// Package gpucore defines the GPU collaborator interfaces the shapes renderer
// is written against.
//
// The renderer never talks to a graphics API directly. It allocates buffers,
// bind groups and render pipelines through a [Device], records draws through
// a [RenderPass], and obtains and presents frames through a [Surface]. Each
// backend (backend/webgpu, backend/native, backend/software) implements these
// interfaces and keeps its own mapping from opaque IDs to real resources.
//
//	              +----------------+
//	              | shapes.Renderer|
//	              +-------+--------+
//	                      |  gpucore.Context{Device, Surface}
//	     +----------------+----------------+
//	     |                |                |
//	+----v-----+    +-----v----+    +------v-----+
//	|  webgpu  |    |  native  |    |  software  |
//	| (window) |    |  (HAL)   |    |   (CPU)    |
//	+----------+    +----------+    +------------+
//
// Resource lifecycle:
//   - Resources are created via Create* methods and identified by opaque IDs
//   - Resources must be explicitly destroyed via Destroy* methods
//   - IDs become invalid after destruction and are never reused
package gpucore
