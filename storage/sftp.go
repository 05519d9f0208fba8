package storage

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

type SFTPConfig struct {
	Host      string
	Port      int
	User      string
	Pass      string
	RemoteDir string
}

// SFTPPersister uploads to a remote directory. The connection is opened on
// first use and reused; Close releases it.
type SFTPPersister struct {
	cfg SFTPConfig

	mu  sync.Mutex
	ssh *ssh.Client
	cli *sftp.Client
}

func NewSFTPPersister(cfg SFTPConfig) (*SFTPPersister, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return nil, fmt.Errorf("sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS")
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}
	return &SFTPPersister{cfg: cfg}, nil
}

func (p *SFTPPersister) connect(ctx context.Context) (*sftp.Client, error) {
	if p.cli != nil {
		return p.cli, nil
	}

	sshCfg := &ssh.ClientConfig{
		User:            p.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(p.cfg.Pass)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // TODO: verify against known_hosts once SFTP_KNOWN_HOSTS is configurable
		Timeout:         20 * time.Second,
	}
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		p.ssh = r.client
	}

	cli, err := sftp.NewClient(p.ssh)
	if err != nil {
		p.ssh.Close()
		p.ssh = nil
		return nil, fmt.Errorf("sftp: new client: %w", err)
	}
	p.cli = cli
	return cli, nil
}

func (p *SFTPPersister) Save(ctx context.Context, name string, data []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cli, err := p.connect(ctx)
	if err != nil {
		return "", err
	}

	remotePath := path.Join(p.cfg.RemoteDir, name)
	if err := cli.MkdirAll(path.Dir(remotePath)); err != nil {
		return "", fmt.Errorf("sftp: mkdir %s: %w", path.Dir(remotePath), err)
	}

	dst, err := cli.Create(remotePath)
	if err != nil {
		return "", fmt.Errorf("sftp: create remote file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.Write(data); err != nil {
		return "", fmt.Errorf("sftp: upload %s: %w", remotePath, err)
	}
	return remotePath, nil
}

func (p *SFTPPersister) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.cli != nil {
		err = p.cli.Close()
		p.cli = nil
	}
	if p.ssh != nil {
		if cerr := p.ssh.Close(); err == nil {
			err = cerr
		}
		p.ssh = nil
	}
	return err
}
