package presale

import (
	"context"
	"math/big"
	"sync"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/ui"
)

// fakeProvider is an in-memory chains.WalletProvider with call counting and an
// optional block point inside RequestAccounts for single-flight tests.
type fakeProvider struct {
	mu sync.Mutex

	accounts     []string
	requestErr   error
	requestCalls int
	requestGate  chan struct{} // when non-nil, RequestAccounts blocks until closed

	chainID  int64
	chainErr error

	switchErr   error
	switchCalls int
	switchTakes bool // when true, a successful switch updates chainID

	balance     *big.Int
	balanceErr  error
	balanceGets int

	selected string

	listeners        map[int]func(chains.ChangeEvent)
	nextListener     int
	unsubscribeCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		accounts:    []string{"0x71C7656EC7ab88b098defB751B7401B5f6d8976F"},
		chainID:     56,
		switchTakes: true,
		balance:     big.NewInt(1e18),
		listeners:   make(map[int]func(chains.ChangeEvent)),
	}
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	p.requestCalls++
	gate := p.requestGate
	err := p.requestErr
	accounts := p.accounts
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *fakeProvider) ChainID(ctx context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chainErr != nil {
		return 0, p.chainErr
	}
	return p.chainID, nil
}

func (p *fakeProvider) SwitchChain(ctx context.Context, chainID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.switchCalls++
	if p.switchErr != nil {
		return p.switchErr
	}
	if p.switchTakes {
		p.chainID = chainID
	}
	return nil
}

func (p *fakeProvider) Balance(ctx context.Context, account string) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balanceGets++
	if p.balanceErr != nil {
		return nil, p.balanceErr
	}
	return new(big.Int).Set(p.balance), nil
}

func (p *fakeProvider) Selected() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected, p.selected != ""
}

func (p *fakeProvider) Subscribe(fn func(chains.ChangeEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.unsubscribeCalls++
		delete(p.listeners, id)
	}
}

// fire delivers an event to all listeners synchronously.
func (p *fakeProvider) fire(ev chains.ChangeEvent) {
	p.mu.Lock()
	fns := make([]func(chains.ChangeEvent), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (p *fakeProvider) listenerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

func (p *fakeProvider) requests() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requestCalls
}

// fakeContract is an in-memory chains.SaleContract.
type fakeContract struct {
	mu sync.Mutex

	paused    bool
	pausedErr error

	tokenAddr string
	tokenErr  error

	saleRate  *big.Int
	saleTotal *big.Int

	gasEstimate   uint64
	estimateErr   error
	estimateCalls int

	buyHash      string
	buyErr       error
	buyCalls     int
	lastValue    *big.Int
	lastGasLimit uint64

	receiptOK bool
	waitErr   error
	waitGate  chan struct{} // when non-nil, WaitMined blocks until closed
}

func newFakeContract() *fakeContract {
	return &fakeContract{
		tokenAddr: "0x55d398326f99059fF775485246999027B3197955",
		buyHash:   "0x9fc76417374aa880d4449a1f7f31ec597f00b1f6f3dd2d66f4c9c6c445836d8b",
		receiptOK: true,
	}
}

func (c *fakeContract) Paused(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused, c.pausedErr
}

func (c *fakeContract) TokenAddress(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenAddr, c.tokenErr
}

func (c *fakeContract) RateTokensPerBNB(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saleRate, nil
}

func (c *fakeContract) TokensForSale(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saleTotal, nil
}

func (c *fakeContract) EstimateBuyGas(ctx context.Context, valueWei *big.Int) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.estimateCalls++
	if c.estimateErr != nil {
		return 0, c.estimateErr
	}
	return c.gasEstimate, nil
}

func (c *fakeContract) BuyTokens(ctx context.Context, valueWei *big.Int, gasLimit uint64) (string, error) {
	c.mu.Lock()
	c.buyCalls++
	c.lastValue = new(big.Int).Set(valueWei)
	c.lastGasLimit = gasLimit
	err := c.buyErr
	hash := c.buyHash
	c.mu.Unlock()
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (c *fakeContract) WaitMined(ctx context.Context, txHash string) (chains.TransactionReceipt, error) {
	c.mu.Lock()
	gate := c.waitGate
	err := c.waitErr
	ok := c.receiptOK
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return fakeReceipt{hash: txHash, ok: ok}, nil
}

type fakeReceipt struct {
	hash string
	ok   bool
}

func (r fakeReceipt) IsSuccessful() bool { return r.ok }
func (r fakeReceipt) TxHash() string     { return r.hash }

// fakeToken is an in-memory chains.TokenReader.
type fakeToken struct {
	mu      sync.Mutex
	balance *big.Int
	err     error
}

func (t *fakeToken) BalanceOf(ctx context.Context, holder string) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	return new(big.Int).Set(t.balance), nil
}

func (t *fakeToken) setBalance(b *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balance = b
}

// fakeBinder hands out a fixed contract and token.
type fakeBinder struct {
	mu          sync.Mutex
	contract    *fakeContract
	contractErr error
	token       *fakeToken
	tokenErr    error
	boundAddrs  []string
}

func (b *fakeBinder) BindContract(ctx context.Context, address string) (chains.SaleContract, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.boundAddrs = append(b.boundAddrs, address)
	if b.contractErr != nil {
		return nil, b.contractErr
	}
	return b.contract, nil
}

func (b *fakeBinder) BindToken(ctx context.Context, address string) (chains.TokenReader, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tokenErr != nil {
		return nil, b.tokenErr
	}
	return b.token, nil
}

// recordSink captures everything the core publishes.
type recordSink struct {
	mu       sync.Mutex
	statuses []statusRecord
	badges   map[ui.Badge]string
	controls map[ui.Control][]bool
	progress []float64
	labels   []string
	links    map[ui.Link]string
}

type statusRecord struct {
	msg      string
	severity ui.Severity
}

func newRecordSink() *recordSink {
	return &recordSink{
		badges:   make(map[ui.Badge]string),
		controls: make(map[ui.Control][]bool),
		links:    make(map[ui.Link]string),
	}
}

func (s *recordSink) SetStatus(msg string, severity ui.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, statusRecord{msg: msg, severity: severity})
}

func (s *recordSink) SetBadge(badge ui.Badge, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges[badge] = text
}

func (s *recordSink) SetProgress(percent float64, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, percent)
	s.labels = append(s.labels, label)
}

func (s *recordSink) SetControl(control ui.Control, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls[control] = append(s.controls[control], enabled)
}

func (s *recordSink) SetLink(link ui.Link, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link] = url
}

func (s *recordSink) lastStatus() statusRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statuses) == 0 {
		return statusRecord{}
	}
	return s.statuses[len(s.statuses)-1]
}

func (s *recordSink) badge(b ui.Badge) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badges[b]
}

func (s *recordSink) link(l ui.Link) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links[l]
}

// controlEnabled reports the latest enabled state pushed for a control.
func (s *recordSink) controlEnabled(c ui.Control) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.controls[c]
	if len(events) == 0 {
		return false, false
	}
	return events[len(events)-1], true
}

func (s *recordSink) lastProgress() (float64, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.progress) == 0 {
		return 0, "", false
	}
	return s.progress[len(s.progress)-1], s.labels[len(s.labels)-1], true
}
