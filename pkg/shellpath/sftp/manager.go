package sftpmanager

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

var (
	globalManager *Manager
	once          sync.Once
)

// Default configuration values
const (
	DefaultPort              = 22
	DefaultMaxIdleTime       = 5 * time.Minute
	DefaultConnectTimeout    = 10 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 1 * time.Second
	DefaultKeepAliveInterval = 30 * time.Second
	DefaultMaxConnections    = 10
	DefaultCleanupInterval   = 2 * time.Minute
)

// ConnectionDetails holds the information needed to establish an SFTP connection
type ConnectionDetails struct {
	Hostname          string
	Port              int
	Username          string
	Password          string
	ConnectTimeout    time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	KeepAliveInterval time.Duration
	// HostKeyCallback verifies the server key. Nil accepts any key.
	HostKeyCallback ssh.HostKeyCallback
}

// String returns the pool key for the connection
func (cd ConnectionDetails) String() string {
	port := cd.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s@%s", cd.Username, net.JoinHostPort(cd.Hostname, strconv.Itoa(port)))
}

func (cd *ConnectionDetails) applyDefaults() {
	if cd.Port == 0 {
		cd.Port = DefaultPort
	}
	if cd.ConnectTimeout == 0 {
		cd.ConnectTimeout = DefaultConnectTimeout
	}
	if cd.MaxRetries == 0 {
		cd.MaxRetries = DefaultMaxRetries
	}
	if cd.RetryDelay == 0 {
		cd.RetryDelay = DefaultRetryDelay
	}
	if cd.KeepAliveInterval == 0 {
		cd.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if cd.HostKeyCallback == nil {
		cd.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	}
}

type clientInfo struct {
	client    *sftp.Client
	sshClient *ssh.Client // nil for attached clients
	lastUsed  time.Time
}

func (info *clientInfo) close() {
	info.client.Close()
	if info.sshClient != nil {
		info.sshClient.Close()
	}
}

// ManagerConfig holds the configuration for the SFTP manager
type ManagerConfig struct {
	MaxIdleTime     time.Duration
	MaxConnections  int
	CleanupInterval time.Duration
	Logger          *log.Logger
}

// Manager pools SFTP clients by user, host and port. Clients it hands out
// stay owned by the manager and are closed by Close or when idle too long.
type Manager struct {
	clients map[string]*clientInfo
	mu      sync.RWMutex
	config  ManagerConfig
	logger  *log.Logger
	done    chan struct{}
	closed  sync.Once
}

// NewManager creates a new Manager with the given configuration
func NewManager(config ManagerConfig) *Manager {
	if config.MaxIdleTime == 0 {
		config.MaxIdleTime = DefaultMaxIdleTime
	}
	if config.MaxConnections == 0 {
		config.MaxConnections = DefaultMaxConnections
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "sftp: ", log.LstdFlags)
	}

	m := &Manager{
		clients: make(map[string]*clientInfo),
		config:  config,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go m.cleanup()
	return m
}

// GetGlobalManager returns the process-wide manager, creating it if needed
func GetGlobalManager() *Manager {
	once.Do(func() {
		globalManager = NewManager(ManagerConfig{})
	})
	return globalManager
}

// GetClient is GetClient on the global manager
func GetClient(ctx context.Context, details ConnectionDetails) (*sftp.Client, error) {
	return GetGlobalManager().GetClient(ctx, details)
}

// GetClient returns a pooled client for details, dialing when there is no
// live one.
func (m *Manager) GetClient(ctx context.Context, details ConnectionDetails) (*sftp.Client, error) {
	details.applyDefaults()
	key := details.String()

	if client, ok := m.getExistingClient(key); ok {
		return client, nil
	}

	m.mu.RLock()
	full := len(m.clients) >= m.config.MaxConnections
	m.mu.RUnlock()
	if full {
		return nil, fmt.Errorf("connection pool limit reached (%d)", m.config.MaxConnections)
	}

	var err error
	for attempt := 0; attempt <= details.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var client *sftp.Client
		if client, err = m.createNewClient(key, details); err == nil {
			return client, nil
		}
		m.logger.Printf("connecting to %s failed (attempt %d): %v", key, attempt+1, err)

		if attempt < details.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(details.RetryDelay):
			}
		}
	}
	return nil, fmt.Errorf("failed to create client after %d attempts: %w", details.MaxRetries+1, err)
}

// Attach adds an already connected client to the pool under details. The
// manager takes ownership and closes it with the others.
func (m *Manager) Attach(details ConnectionDetails, client *sftp.Client) {
	key := details.String()

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.clients[key]; ok && old.client != client {
		old.close()
	}
	m.clients[key] = &clientInfo{client: client, lastUsed: time.Now()}
}

func (m *Manager) getExistingClient(key string) (*sftp.Client, bool) {
	m.mu.Lock()
	info, exists := m.clients[key]
	if exists {
		info.lastUsed = time.Now()
	}
	m.mu.Unlock()

	if !exists {
		return nil, false
	}

	// Test if connection is still alive
	if _, err := info.client.Getwd(); err == nil {
		return info.client, true
	}

	m.logger.Printf("dropping dead connection %s", key)
	m.mu.Lock()
	if m.clients[key] == info {
		delete(m.clients, key)
	}
	m.mu.Unlock()
	info.close()
	return nil, false
}

func (m *Manager) createNewClient(key string, details ConnectionDetails) (*sftp.Client, error) {
	sshConfig := &ssh.ClientConfig{
		User: details.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(details.Password),
		},
		HostKeyCallback: details.HostKeyCallback,
		Timeout:         details.ConnectTimeout,
	}

	addr := net.JoinHostPort(details.Hostname, strconv.Itoa(details.Port))
	sshClient, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	if details.KeepAliveInterval > 0 {
		go m.keepAlive(sshClient, details.KeepAliveInterval)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}

	m.mu.Lock()
	m.clients[key] = &clientInfo{
		client:    sftpClient,
		sshClient: sshClient,
		lastUsed:  time.Now(),
	}
	m.mu.Unlock()

	m.logger.Printf("connected to %s", key)
	return sftpClient, nil
}

func (m *Manager) keepAlive(client *ssh.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _, err := client.SendRequest("keepalive@openssh.com", true, nil)
			if err != nil {
				return
			}
		case <-m.done:
			return
		}
	}
}

// cleanup periodically closes idle connections
func (m *Manager) cleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(time.Now())
		case <-m.done:
			return
		}
	}
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, info := range m.clients {
		if now.Sub(info.lastUsed) > m.config.MaxIdleTime {
			m.logger.Printf("closing idle connection %s", key)
			info.close()
			delete(m.clients, key)
		}
	}
}

// Close closes all connections and stops the cleanup goroutine. It is safe
// to call more than once.
func (m *Manager) Close() {
	m.closed.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, info := range m.clients {
		info.close()
	}
	m.clients = make(map[string]*clientInfo)
}

// Stats returns the last use of every pooled connection
func (m *Manager) Stats() map[string]time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]time.Time, len(m.clients))
	for key, info := range m.clients {
		stats[key] = info.lastUsed
	}
	return stats
}
