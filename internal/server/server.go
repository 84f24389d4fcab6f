// Package server exposes the doc comment reader over JSON-RPC 2.0 with LSP style framing.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/shopware/phpdoc-reader/internal/indexer"
	"github.com/shopware/phpdoc-reader/internal/php"
	"github.com/shopware/phpdoc-reader/phpdoc"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	CodeCannotResolve int64 = -32001
	CodeInvalidClass  int64 = -32002
)

// Server answers phpdoc/* requests from the class index. The reader, and with it the
// import table cache, is replaced whenever the index changes.
type Server struct {
	index   *php.PHPIndex
	scanner *indexer.FileScanner
	cfg     phpdoc.Config

	readerMu sync.RWMutex
	reader   *phpdoc.Reader

	conn      *jsonrpc2.Conn
	indexing  sync.Mutex
	indexWg   sync.WaitGroup
	closeOnce sync.Once
}

// New creates a server. scanner may be nil, phpdoc/reindex then fails.
func New(index *php.PHPIndex, scanner *indexer.FileScanner, cfg phpdoc.Config) *Server {
	s := &Server{
		index:   index,
		scanner: scanner,
		cfg:     cfg,
	}
	s.RefreshReader()

	if scanner != nil {
		scanner.SetOnUpdate(s.RefreshReader)
	}
	return s
}

// RefreshReader drops the cached import tables by replacing the reader.
func (s *Server) RefreshReader() {
	reader := phpdoc.NewReader(s.index, s.cfg)

	s.readerMu.Lock()
	s.reader = reader
	s.readerMu.Unlock()
}

func (s *Server) Reader() *phpdoc.Reader {
	s.readerMu.RLock()
	defer s.readerMu.RUnlock()
	return s.reader
}

// Start serves requests read from in until the connection closes.
func (s *Server) Start(in io.Reader, out io.Writer) error {
	stream := jsonrpc2.NewBufferedStream(rwc{in, out}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(s.handle))
	s.conn = conn

	<-conn.DisconnectNotify()
	s.indexWg.Wait()
	return nil
}

type rwc struct {
	io.Reader
	io.Writer
}

func (c rwc) Close() error {
	if closer, ok := c.Reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	if req.Method == "exit" {
		log.Println("Received exit notification, exiting")
		if err := conn.Close(); err != nil {
			log.Printf("error closing connection: %v", err)
		}
		return nil, nil
	}

	switch req.Method {
	case "phpdoc/propertyClass", "phpdoc/propertyClasses":
		var params PropertyParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		property, err := s.index.ReflectProperty(params.Class, params.Property)
		if err != nil {
			return nil, toRPCError(err)
		}
		if req.Method == "phpdoc/propertyClasses" {
			return classesResult(s.Reader().PropertyClasses(property))
		}
		return classResult(s.Reader().PropertyClass(property))

	case "phpdoc/parameterClass", "phpdoc/parameterClasses":
		var params ParameterParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		parameter, err := s.index.ReflectParameter(params.Class, params.Method, params.Parameter)
		if err != nil {
			return nil, toRPCError(err)
		}
		if req.Method == "phpdoc/parameterClasses" {
			return classesResult(s.Reader().ParameterClasses(parameter))
		}
		return classResult(s.Reader().ParameterClass(parameter))

	case "phpdoc/methodReturnClass", "phpdoc/methodReturnClasses":
		var params MethodParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		method, err := s.index.ReflectMethod(params.Class, params.Method)
		if err != nil {
			return nil, toRPCError(err)
		}
		if req.Method == "phpdoc/methodReturnClasses" {
			return classesResult(s.Reader().MethodReturnClasses(method))
		}
		return classResult(s.Reader().MethodReturnClass(method))

	case "phpdoc/status":
		stats := s.Reader().Imports().Stats()
		return StatusResult{
			Classes:      s.index.Len(),
			ImportTables: s.Reader().Imports().Len(),
			CacheHits:    stats.Hits,
			CacheMisses:  stats.Misses,
		}, nil

	case "phpdoc/reindex":
		if s.scanner == nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "reindexing is not available without scan roots"}
		}
		s.indexWg.Add(1)
		go func() {
			defer s.indexWg.Done()
			if err := s.reindex(context.Background(), conn); err != nil {
				log.Printf("Error reindexing: %v", err)
			}
		}()
		return map[string]interface{}{
			"message": "Reindexing started",
		}, nil

	case "shutdown":
		s.closeOnce.Do(func() {
			if s.scanner != nil {
				s.scanner.StopWatcher()
			}
		})
		log.Println("Received shutdown request, waiting for exit notification")
		return nil, nil

	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "Method not implemented: " + req.Method}
	}
}

// reindex drops the index and scans all roots again. Concurrent requests wait for the
// running one.
func (s *Server) reindex(ctx context.Context, conn *jsonrpc2.Conn) error {
	s.indexing.Lock()
	defer s.indexing.Unlock()

	startTime := time.Now()
	if err := conn.Notify(ctx, "phpdoc/indexingStarted", map[string]interface{}{
		"message": "Indexing started",
	}); err != nil {
		return err
	}

	if err := s.scanner.Reset(); err != nil {
		return err
	}
	if err := s.scanner.IndexAll(ctx); err != nil {
		return err
	}

	return conn.Notify(ctx, "phpdoc/indexingCompleted", map[string]interface{}{
		"message":       "Indexing completed",
		"classes":       s.index.Len(),
		"timeInSeconds": time.Since(startTime).Seconds(),
	})
}

func unmarshalParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
	}
	return nil
}

func classResult(class string, err error) (interface{}, error) {
	if err != nil {
		return nil, toRPCError(err)
	}
	return ClassResult{Class: class}, nil
}

func classesResult(classes []string, err error) (interface{}, error) {
	if err != nil {
		return nil, toRPCError(err)
	}
	if classes == nil {
		classes = []string{}
	}
	return ClassesResult{Classes: classes}, nil
}

// toRPCError maps reflection and resolution errors onto JSON-RPC error codes.
func toRPCError(err error) *jsonrpc2.Error {
	rpcErr := &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}

	var cannotResolve *phpdoc.CannotResolveError
	var invalidClass *phpdoc.InvalidClassError
	switch {
	case errors.Is(err, php.ErrClassNotFound), errors.Is(err, php.ErrMemberNotFound):
		rpcErr.Code = jsonrpc2.CodeInvalidParams
	case errors.As(err, &cannotResolve):
		rpcErr.Code = CodeCannotResolve
		rpcErr.SetError(map[string]string{"type": cannotResolve.Type})
	case errors.As(err, &invalidClass):
		rpcErr.Code = CodeInvalidClass
		rpcErr.SetError(map[string]string{"class": invalidClass.Class})
	}
	return rpcErr
}
