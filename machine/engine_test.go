package machine_test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/MixinNetwork/candy/machine"
	"github.com/MixinNetwork/candy/store"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRegistry struct {
	issues    []*machine.IssueInstruction
	transfers []*machine.TransferInstruction
}

func (fr *fakeRegistry) Issue(ctx context.Context, instr *machine.IssueInstruction) error {
	fr.issues = append(fr.issues, instr)
	return nil
}

func (fr *fakeRegistry) Transfer(ctx context.Context, instr *machine.TransferInstruction) error {
	fr.transfers = append(fr.transfers, instr)
	return nil
}

func openStore(t *testing.T) *store.BadgerStore {
	ctx, cancel := context.WithCancel(context.Background())
	bs, err := store.OpenBadger(ctx, t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		bs.Close()
	})
	return bs
}

func newTestMachine(t *testing.T, conf *machine.Configuration) (*machine.Machine, *fakeRegistry, *store.BadgerStore) {
	bs := openStore(t)
	fr := &fakeRegistry{}
	m := machine.NewMachine(bs, fr)
	require.NoError(t, m.Bootstrap(conf))
	return m, fr, bs
}

func testConf(kind machine.CollectionConfiguration, stages ...machine.StageConfiguration) *machine.Configuration {
	return &machine.Configuration{
		Owner:         "owner",
		Name:          "Candy",
		Symbol:        "CANDY",
		Description:   "a limited edition collection",
		MaxTokenCount: 10,
		Collection:    kind,
		Stages:        stages,
	}
}

func singleKindConf() machine.CollectionConfiguration {
	return machine.CollectionConfiguration{Kind: "single", Image: "ipfs://candy.png"}
}

func collectibleKindConf(publicKey string) machine.CollectionConfiguration {
	return machine.CollectionConfiguration{
		Kind:       "collectible",
		Authorizer: "minter",
		Cover:      "ipfs://cover.png",
		PublicKey:  publicKey,
	}
}

func setRegistry(t *testing.T, m *machine.Machine) {
	addr := "registry-contract"
	require.NoError(t, m.Configure("owner", &machine.ConfigureReq{RegistryAddress: &addr}))
}

func i64(v int64) *int64   { return &v }
func u32(v uint32) *uint32 { return &v }
func str(v string) *string { return &v }
func boolp(v bool) *bool   { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func coin(assetId, amount string) *machine.Coin {
	return &machine.Coin{AssetId: assetId, Amount: decimal.RequireFromString(amount)}
}

func TestIssueStageWindow(t *testing.T) {
	ctx := context.Background()
	m, fr, bs := newTestMachine(t, testConf(singleKindConf(), machine.StageConfiguration{
		Id:         1,
		Name:       "public",
		Start:      i64(1000),
		Finish:     i64(1100),
		MaxPerUser: u32(1),
	}))
	req := &machine.IssueReq{StageId: 1}

	_, err := m.RequestIssue(ctx, "alice", 999, nil, req)
	var notStarted *machine.NotStartedError
	require.ErrorAs(t, err, &notStarted)
	assert.Equal(t, int64(1000), notStarted.Start)

	_, err = m.RequestIssue(ctx, "alice", 1101, nil, req)
	var finished *machine.FinishedError
	require.ErrorAs(t, err, &finished)
	assert.Equal(t, int64(1100), finished.Finish)

	_, err = m.RequestIssue(ctx, "alice", 1050, nil, req)
	require.ErrorIs(t, err, machine.ErrRegistryNotSet)

	count, err := m.TokenCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), count)
	quota, err := bs.ReadUserCount("alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), quota)

	setRegistry(t, m)
	tokenId, err := m.RequestIssue(ctx, "alice", 1050, nil, req)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tokenId)
	count, err = m.TokenCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)
	require.Len(t, fr.issues, 1)
	assert.Equal(t, "alice", fr.issues[0].Receiver)
	assert.Equal(t, "Candy #1", fr.issues[0].Metadata.Name)
	assert.Equal(t, "ipfs://candy.png", fr.issues[0].Metadata.Image)

	_, err = m.RequestIssue(ctx, "alice", 1060, nil, req)
	require.ErrorIs(t, err, machine.ErrQuotaExceeded)
	count, err = m.TokenCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)
}

func TestIssueUnknownStage(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestMachine(t, testConf(singleKindConf()))
	setRegistry(t, m)

	_, err := m.RequestIssue(ctx, "alice", 1000, nil, &machine.IssueReq{StageId: 9})
	require.ErrorIs(t, err, machine.ErrUnknownStage)
}

func TestIssuePaymentGates(t *testing.T) {
	ctx := context.Background()
	m, fr, bs := newTestMachine(t, testConf(singleKindConf(), machine.StageConfiguration{
		Id:    1,
		Name:  "public",
		Price: "100",
	}))
	setRegistry(t, m)
	req := &machine.IssueReq{StageId: 1}
	other := "b91e18ff-a9ae-3dc7-8679-e935d9a4b34b"

	_, err := m.RequestIssue(ctx, "alice", 1000, nil, req)
	require.ErrorIs(t, err, machine.ErrZeroAmount)

	_, err = m.RequestIssue(ctx, "alice", 1000, []*machine.Coin{coin(other, "5")}, req)
	require.ErrorIs(t, err, machine.ErrZeroAmount)

	_, err = m.RequestIssue(ctx, "alice", 1000, []*machine.Coin{coin(machine.PaymentAssetId, "50")}, req)
	var wrong *machine.WrongAmountError
	require.ErrorAs(t, err, &wrong)
	assert.Equal(t, "100", wrong.Expected.String())

	funds := []*machine.Coin{coin(machine.PaymentAssetId, "100"), coin(other, "1")}
	_, err = m.RequestIssue(ctx, "alice", 1000, funds, req)
	var unsupported *machine.UnsupportedDenomError
	require.ErrorAs(t, err, &unsupported)

	count, err := m.TokenCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), count)

	tokenId, err := m.RequestIssue(ctx, "alice", 1000, []*machine.Coin{coin(machine.PaymentAssetId, "100")}, req)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tokenId)
	require.Len(t, fr.issues, 1)

	funds100, err := bs.ReadCollectedFunds()
	require.NoError(t, err)
	assert.Equal(t, "100", funds100.String())
}

func TestIssueSoldOut(t *testing.T) {
	ctx := context.Background()
	conf := testConf(singleKindConf(), machine.StageConfiguration{Id: 1, Name: "public"})
	conf.MaxTokenCount = 1
	m, _, _ := newTestMachine(t, conf)
	setRegistry(t, m)
	req := &machine.IssueReq{StageId: 1}

	_, err := m.RequestIssue(ctx, "alice", 1000, nil, req)
	require.NoError(t, err)

	_, err = m.RequestIssue(ctx, "bob", 1000, nil, req)
	require.ErrorIs(t, err, machine.ErrSoldOut)

	count, err := m.TokenCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)
}

func TestIssueWhitelistGate(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestMachine(t, testConf(singleKindConf(), machine.StageConfiguration{
		Id:               1,
		Name:             "private",
		WhitelistEnabled: true,
	}))
	setRegistry(t, m)
	req := &machine.IssueReq{StageId: 1}

	_, err := m.RequestIssue(ctx, "alice", 1000, nil, req)
	var nwl *machine.NotWhitelistedError
	require.ErrorAs(t, err, &nwl)
	assert.Equal(t, "alice", nwl.Account)

	err = m.ConfigureWhitelist("owner", &machine.ConfigureWhitelistReq{
		StageId:  1,
		Add:      true,
		Accounts: []string{"alice", "bob"},
	})
	require.NoError(t, err)

	_, err = m.RequestIssue(ctx, "alice", 1000, nil, req)
	require.NoError(t, err)

	err = m.ConfigureWhitelist("owner", &machine.ConfigureWhitelistReq{
		StageId:  1,
		Add:      false,
		Accounts: []string{"bob"},
	})
	require.NoError(t, err)
	_, err = m.RequestIssue(ctx, "bob", 1000, nil, req)
	require.ErrorAs(t, err, &nwl)
}

func TestReserveAndConfirm(t *testing.T) {
	ctx := context.Background()
	m, fr, bs := newTestMachine(t, testConf(collectibleKindConf(""), machine.StageConfiguration{
		Id:   1,
		Name: "public",
	}))
	setRegistry(t, m)

	tokenId, err := m.RequestIssue(ctx, "alice", 1000, nil, &machine.IssueReq{StageId: 1})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tokenId)
	assert.Len(t, fr.issues, 0)

	r, err := bs.ReadReservation(1)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "alice", r.UserAddress)
	assert.Equal(t, uint32(1), r.TokenId)

	ids, err := m.ListUnprocessedReservations(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, ids)

	meta := machine.TokenMetadata{Name: "Candy #1", Description: "rare", Image: "ipfs://1.png"}
	err = m.ConfirmIssue(ctx, "bob", &machine.ConfirmReq{TokenId: 1, Metadata: meta})
	require.ErrorIs(t, err, machine.ErrUnauthorized)

	err = m.ConfirmIssue(ctx, "minter", &machine.ConfirmReq{TokenId: 2, Metadata: meta})
	require.ErrorIs(t, err, machine.ErrUnknownReservation)

	err = m.ConfirmIssue(ctx, "minter", &machine.ConfirmReq{TokenId: 1, Metadata: meta})
	require.NoError(t, err)
	require.Len(t, fr.issues, 1)
	assert.Equal(t, "alice", fr.issues[0].Receiver)
	assert.Equal(t, uint32(1), fr.issues[0].TokenId)
	assert.Equal(t, meta, fr.issues[0].Metadata)

	ids, err = m.ListUnprocessedReservations(0, 0)
	require.NoError(t, err)
	assert.Len(t, ids, 0)

	err = m.ConfirmIssue(ctx, "minter", &machine.ConfirmReq{TokenId: 1, Metadata: meta})
	require.ErrorIs(t, err, machine.ErrUnknownReservation)
}

func TestConfirmWrongKind(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestMachine(t, testConf(singleKindConf()))
	setRegistry(t, m)

	err := m.ConfirmIssue(ctx, "minter", &machine.ConfirmReq{TokenId: 1})
	require.ErrorIs(t, err, machine.ErrInvalidCollectionKind)
}

func TestReserveSignatureGate(t *testing.T) {
	ctx := context.Background()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pub := base64.StdEncoding.EncodeToString(priv.PubKey().SerializeCompressed())

	m, _, bs := newTestMachine(t, testConf(collectibleKindConf(pub), machine.StageConfiguration{
		Id:   1,
		Name: "public",
	}))
	setRegistry(t, m)

	_, err = m.RequestIssue(ctx, "alice", 1000, nil, &machine.IssueReq{StageId: 1})
	require.ErrorIs(t, err, machine.ErrInvalidSignature)

	_, err = m.RequestIssue(ctx, "alice", 1000, nil, &machine.IssueReq{StageId: 1, Signature: "not base64!"})
	require.ErrorIs(t, err, machine.ErrInvalidSignature)

	count, err := m.TokenCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), count)
	quota, err := bs.ReadUserCount("alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), quota)

	wrongPriv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	_, err = m.RequestIssue(ctx, "alice", 1000, nil, &machine.IssueReq{
		StageId:   1,
		Signature: signReserve(wrongPriv, "alice"),
	})
	require.ErrorIs(t, err, machine.ErrInvalidSignature)

	tokenId, err := m.RequestIssue(ctx, "alice", 1000, nil, &machine.IssueReq{
		StageId:   1,
		Signature: signReserve(priv, "alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tokenId)

	r, err := bs.ReadReservation(1)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "alice", r.UserAddress)
}

func signReserve(priv *secp256k1.PrivateKey, account string) string {
	hash := sha256.Sum256([]byte(account))
	compact := ecdsa.SignCompact(priv, hash[:], true)
	return base64.StdEncoding.EncodeToString(compact[1:])
}

func TestPendingReservationPagination(t *testing.T) {
	ctx := context.Background()
	conf := testConf(collectibleKindConf(""), machine.StageConfiguration{Id: 1, Name: "public"})
	conf.MaxTokenCount = 40
	m, _, _ := newTestMachine(t, conf)
	setRegistry(t, m)

	for i := 0; i < 35; i++ {
		_, err := m.RequestIssue(ctx, fmt.Sprintf("user-%d", i), 1000, nil, &machine.IssueReq{StageId: 1})
		require.NoError(t, err)
	}

	ids, err := m.ListUnprocessedReservations(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{35, 34, 33, 32, 31, 30, 29, 28, 27, 26}, ids)

	ids, err = m.ListUnprocessedReservations(3, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 1}, ids)

	ids, err = m.ListUnprocessedReservations(1, 0)
	require.NoError(t, err)
	assert.Len(t, ids, 0)

	ids, err = m.ListUnprocessedReservations(0, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint32{35, 34, 33, 32, 31}, ids)

	// the requested limit is capped at 30 even with more pending
	ids, err = m.ListUnprocessedReservations(0, 100)
	require.NoError(t, err)
	require.Len(t, ids, 30)
	assert.Equal(t, uint32(35), ids[0])
	assert.Equal(t, uint32(6), ids[29])
}

func TestTokenIdsStrictlyIncrease(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestMachine(t, testConf(collectibleKindConf(""), machine.StageConfiguration{Id: 1, Name: "public"}))
	setRegistry(t, m)

	var last uint32
	for i := 0; i < 3; i++ {
		id, err := m.RequestIssue(ctx, fmt.Sprintf("user-%d", i), 1000, nil, &machine.IssueReq{StageId: 1})
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}

	err := m.ConfirmIssue(ctx, "minter", &machine.ConfirmReq{TokenId: 2})
	require.NoError(t, err)
	id, err := m.RequestIssue(ctx, "user-3", 1000, nil, &machine.IssueReq{StageId: 1})
	require.NoError(t, err)
	assert.Equal(t, uint32(4), id)
}
