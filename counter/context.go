package counter

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/d0ngw/idgen/dynamo"
	"github.com/d0ngw/idgen/store"
)

// 误用错误,以panic的方式抛出
var (
	// ErrAlreadyInitialized Init called on an initialized Context
	ErrAlreadyInitialized = errors.New("counter: context already initialized, Init can be called only once")
	// ErrNotInitialized operation on a Context without Init
	ErrNotInitialized = errors.New("counter: context not initialized, call Init first")
	// ErrNilEngine InitWithEngine called with a nil engine
	ErrNilEngine = errors.New("counter: nil engine")
)

// Connect holds the engine handle installed by Init
type Connect struct {
	Engine store.Engine
	Region string
}

// Context is the caller owned connection holder. The zero value is not initialized,
// it must be initialized once with Init or InitWithEngine and can then be shared by goroutines.
type Context struct {
	connect atomic.Pointer[Connect]
}

// Init build a DynamoDB engine for region and install it.
// Loading the AWS configuration does not touch the network,the client connects on first use.
// It panics with ErrAlreadyInitialized if p is initialized.
func (p *Context) Init(region string) error {
	if p.Initialized() {
		panic(ErrAlreadyInitialized)
	}
	engine, err := dynamo.New(context.Background(), &dynamo.Config{Region: region})
	if err != nil {
		return err
	}
	p.InitWithEngine(engine, region)
	return nil
}

// InitWithEngine install engine.
// It panics with ErrAlreadyInitialized if p is initialized,the installed engine is kept.
func (p *Context) InitWithEngine(engine store.Engine, region string) {
	if engine == nil {
		panic(ErrNilEngine)
	}
	if !p.connect.CompareAndSwap(nil, &Connect{Engine: engine, Region: region}) {
		panic(ErrAlreadyInitialized)
	}
}

// Initialized reports whether p has been initialized
func (p *Context) Initialized() bool {
	return p.connect.Load() != nil
}

// Connect return the installed handle,it panics with ErrNotInitialized if p is not initialized
func (p *Context) Connect() *Connect {
	conn := p.connect.Load()
	if conn == nil {
		panic(ErrNotInitialized)
	}
	return conn
}
