package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct {
	pool  *pgxpool.Pool
	table string
}

func OpenPostgres(ctx context.Context, url string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	prefix := os.Getenv("DB_TABLE_PREFIX")
	s := &PgStore{pool: pool, table: prefix + "countdowns"}
	if err := s.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PgStore) init(ctx context.Context) error {
	q := fmt.Sprintf(`create table if not exists %s (
        id text primary key,
        chat_id text not null,
        message_id bigint not null,
        target_timestamp bigint not null,
        template text not null,
        admin_chat_id bigint not null,
        render_mode text not null default 'text',
        created_at timestamptz not null default now(),
        updated_at timestamptz not null default now()
    )`, s.table)
	_, err := s.pool.Exec(ctx, q)
	return err
}

func (s *PgStore) Close() error { s.pool.Close(); return nil }

func (s *PgStore) LoadAll() (map[string]Countdown, error) {
	rows, err := s.pool.Query(context.Background(),
		fmt.Sprintf(`select id, chat_id, message_id, target_timestamp, template, admin_chat_id, render_mode from %s`, s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	all := map[string]Countdown{}
	for rows.Next() {
		var c Countdown
		var mode string
		if err := rows.Scan(&c.ID, &c.ChatID, &c.MessageID, &c.Target, &c.Template, &c.OwnerChatID, &mode); err != nil {
			return nil, err
		}
		c.RenderMode = RenderMode(mode)
		all[c.ID] = c
	}
	return all, rows.Err()
}

func (s *PgStore) Get(id string) (Countdown, error) {
	var c Countdown
	var mode string
	err := s.pool.QueryRow(context.Background(),
		fmt.Sprintf(`select id, chat_id, message_id, target_timestamp, template, admin_chat_id, render_mode from %s where id=$1`, s.table), id,
	).Scan(&c.ID, &c.ChatID, &c.MessageID, &c.Target, &c.Template, &c.OwnerChatID, &mode)
	if errors.Is(err, pgx.ErrNoRows) {
		return Countdown{}, ErrNotFound
	}
	if err != nil {
		return Countdown{}, err
	}
	c.RenderMode = RenderMode(mode)
	return c, nil
}

func (s *PgStore) Upsert(c Countdown) error {
	if c.ID == "" {
		return fmt.Errorf("countdown id required")
	}
	_, err := s.pool.Exec(context.Background(),
		fmt.Sprintf(`insert into %s (id, chat_id, message_id, target_timestamp, template, admin_chat_id, render_mode)
         values ($1,$2,$3,$4,$5,$6,$7)
         on conflict (id) do update set chat_id=excluded.chat_id, message_id=excluded.message_id, target_timestamp=excluded.target_timestamp, template=excluded.template, admin_chat_id=excluded.admin_chat_id, render_mode=excluded.render_mode, updated_at=now()`, s.table),
		c.ID, c.ChatID, c.MessageID, c.Target, c.Template, c.OwnerChatID, string(c.Mode()),
	)
	return err
}

func (s *PgStore) Delete(id string) error {
	_, err := s.pool.Exec(context.Background(),
		fmt.Sprintf(`delete from %s where id=$1`, s.table), id)
	return err
}
