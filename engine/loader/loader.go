package loader

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
)

var (
	// ErrMeshBuild wraps any failure building the mesh.
	ErrMeshBuild = errors.New("mesh build failed")

	// ErrTextureDecode wraps any failure reading or decoding the texture.
	ErrTextureDecode = errors.New("texture decode failed")
)

// Defaults for asset preparation.
const (
	// DefaultMaxTextureSize is the largest texture side kept after decoding; larger images are downscaled.
	DefaultMaxTextureSize = 2048

	// CheckerboardSize and CheckerboardCells describe the generated texture used when no path is configured.
	CheckerboardSize  = 2048
	CheckerboardCells = 8
)

var (
	checkerDark  = color.RGBA{R: 48, G: 48, B: 56, A: 255}
	checkerLight = color.RGBA{R: 228, G: 228, B: 228, A: 255}
)

// assets is the implementation of the Assets interface.
type assets struct {
	mu *sync.Mutex

	texturePath    string
	maxTextureSize int
	boxOptions     []model.BoxBuilderOption
	fallback       *common.TextureStagingData
	workers        int

	prepared   bool
	mesh       model.Mesh
	meshErr    error
	texture    common.TextureStagingData
	textureErr error
}

// Assets prepares the CPU side of everything the cube draws: the box mesh and the texture pixels.
// Both are produced once, concurrently, and cached; later calls return the cached results.
type Assets interface {
	// Prepare builds the mesh and decodes the texture in parallel on a worker pool.
	// Calling it again after a completed preparation is a no-op.
	//
	// Returns:
	//   - error: the mesh and texture errors joined, or nil
	Prepare() error

	// Mesh returns the prepared mesh, preparing assets first if needed.
	//
	// Returns:
	//   - model.Mesh: the mesh
	//   - error: an error wrapping ErrMeshBuild if the mesh could not be built
	Mesh() (model.Mesh, error)

	// Texture returns the prepared texture pixels, preparing assets first if needed.
	// Without a configured path a generated checkerboard is returned.
	//
	// Returns:
	//   - common.TextureStagingData: RGBA8 pixels
	//   - error: an error wrapping ErrTextureDecode if the texture could not be loaded
	Texture() (common.TextureStagingData, error)

	// TexturePath returns the configured texture file, empty when the checkerboard is used.
	//
	// Returns:
	//   - string: the texture path
	TexturePath() string
}

var _ Assets = &assets{}

// NewAssets creates an Assets instance. Nothing is built until Prepare, Mesh or Texture is called.
//
// Parameters:
//   - options: a variadic list of AssetsBuilderOption functions
//
// Returns:
//   - Assets: the asset set
func NewAssets(options ...AssetsBuilderOption) Assets {
	a := &assets{
		mu:             &sync.Mutex{},
		maxTextureSize: DefaultMaxTextureSize,
		workers:        2,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *assets) Prepare() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prepare()
	return errors.Join(a.meshErr, a.textureErr)
}

func (a *assets) Mesh() (model.Mesh, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prepare()
	return a.mesh, a.meshErr
}

func (a *assets) Texture() (common.TextureStagingData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prepare()
	return a.texture, a.textureErr
}

func (a *assets) TexturePath() string {
	return a.texturePath
}

// prepare runs the mesh build and the texture decode as two pool tasks. The pool is torn
// down afterwards since assets are prepared once per process. The caller holds a.mu.
func (a *assets) prepare() {
	if a.prepared {
		return
	}
	start := time.Now()

	pool := worker.NewDynamicWorkerPool(a.workers, 2, time.Second)
	defer pool.Stop()

	// pool.Wait only returns once workers idle-exit, so a WaitGroup marks the barrier instead.
	var wg sync.WaitGroup
	wg.Add(2)
	pool.SubmitTask(worker.Task{
		ID: 0,
		Do: func() (any, error) {
			defer wg.Done()
			a.mesh, a.meshErr = a.buildMesh()
			return a.mesh, a.meshErr
		},
	})
	pool.SubmitTask(worker.Task{
		ID: 1,
		Do: func() (any, error) {
			defer wg.Done()
			a.texture, a.textureErr = a.loadTexture()
			return a.texture, a.textureErr
		},
	})
	wg.Wait()

	a.prepared = true
	common.Logger().Debug("assets prepared",
		"elapsed", time.Since(start),
		"mesh_ok", a.meshErr == nil,
		"texture_ok", a.textureErr == nil,
		"texture", common.Coalesce(a.texturePath, "checkerboard"))
}

func (a *assets) buildMesh() (model.Mesh, error) {
	m, err := model.NewBoxMesh(a.boxOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMeshBuild, err)
	}
	return m, nil
}

func (a *assets) loadTexture() (common.TextureStagingData, error) {
	if a.texturePath == "" {
		if a.fallback != nil {
			return *a.fallback, nil
		}
		size := CheckerboardSize
		if a.maxTextureSize > 0 {
			size = min(size, a.maxTextureSize)
		}
		return common.Checkerboard(size, CheckerboardCells, checkerDark, checkerLight), nil
	}

	data, err := common.LoadTexture(a.texturePath, a.maxTextureSize)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("%w: %w", ErrTextureDecode, err)
	}
	if err := data.Validate(); err != nil {
		return common.TextureStagingData{}, fmt.Errorf("%w: %w", ErrTextureDecode, err)
	}
	return data, nil
}
